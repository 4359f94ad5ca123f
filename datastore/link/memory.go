package link

import (
	"context"
	"discord-link-bot/model"
	"sync"

	log "github.com/sirupsen/logrus"
)

type MemoryLinkStore struct {
	log   *log.Logger
	links map[string]model.Link
	mutex sync.RWMutex
}

// NewMemoryLinkStore creates an object that holds the links
// for the lifetime of the process. Buttons posted before a
// restart can no longer be resolved.
func NewMemoryLinkStore(log *log.Logger) *MemoryLinkStore {
	return &MemoryLinkStore{
		log:   log,
		links: make(map[string]model.Link),
	}
}

func (store *MemoryLinkStore) Init(ctx context.Context) error {
	store.log.Debug("Links are kept in memory, they will be lost on restart")
	return nil
}

func (store *MemoryLinkStore) Save(ctx context.Context, link *model.Link) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if _, ok := store.links[link.ID]; ok {
		return model.ErrLinkExists
	}
	store.links[link.ID] = *link
	return nil
}

func (store *MemoryLinkStore) SetMessageID(ctx context.Context, id string, messageID string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	link, ok := store.links[id]
	if !ok {
		return model.ErrLinkNotFound
	}
	link.MessageID = messageID
	store.links[id] = link
	return nil
}

// Get returns a copy of the stored link, so the
// caller cannot mutate the bound value.
func (store *MemoryLinkStore) Get(ctx context.Context, id string) (*model.Link, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	link, ok := store.links[id]
	if !ok {
		return nil, model.ErrLinkNotFound
	}
	return &link, nil
}

func (store *MemoryLinkStore) Remove(ctx context.Context, id string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	delete(store.links, id)
	return nil
}

func (store *MemoryLinkStore) RemoveByMessageIDs(ctx context.Context, messageIDs ...string) (int, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	ids := make(map[string]struct{}, len(messageIDs))
	for _, m := range messageIDs {
		ids[m] = struct{}{}
	}
	n := 0
	for id, link := range store.links {
		if _, ok := ids[link.MessageID]; ok && len(link.MessageID) > 0 {
			delete(store.links, id)
			n++
		}
	}
	return n, nil
}

func (store *MemoryLinkStore) Close() error {
	return nil
}
