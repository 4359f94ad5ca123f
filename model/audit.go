package model

type AuditKind string

const (
	CreationAudit AuditKind = "creation" // A user shared a new link
	AccessAudit   AuditKind = "access"   // A user revealed a shared link
)

type AuditField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// AuditRecord is a fire-and-forget entry sent to the
// audit channel. It is not retained after sending.
type AuditRecord struct {
	Kind        AuditKind     `json:"kind"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Thumbnail   string        `json:"thumbnail"`
	Fields      []*AuditField `json:"fields"`
	Footer      string        `json:"footer"`
	Color       int           `json:"color"`
}
