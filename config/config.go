// Package config adds support for loading configuration from multiple yaml
// files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/go-playground/validator/v10"
	"github.com/imdario/mergo"
	"gopkg.in/yaml.v2"
)

const (
	TokenEnv        = "BOT_TOKEN"
	LogChannelIDEnv = "LOG_CHANNEL_ID"
)

// ErrConfiguration is returned for missing or invalid configuration.
var ErrConfiguration = errors.New("invalid configuration")

// Credentials are the values that are always read from
// the environment and never from the config files.
type Credentials struct {
	Token        string
	LogChannelID string
}

// LoadConfiguration parses the provided yaml files and merges them
// into target, values in later files override the earlier ones and
// the values already present in target. Empty paths are skipped.
func LoadConfiguration(configFiles []string, target interface{}) error {
	for _, configFilePath := range configFiles {
		configFilePath = strings.TrimSpace(configFilePath)
		if len(configFilePath) == 0 {
			continue
		}
		log.WithFields(log.Fields{"File": configFilePath}).Info("Parsing config file")
		rawContent, err := os.ReadFile(configFilePath)
		if err != nil {
			return err
		}
		cfg := newZeroFor(target)
		err = yaml.Unmarshal(rawContent, cfg)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrConfiguration, configFilePath, err)
		}
		err = mergo.Merge(target, cfg, mergo.WithOverride)
		if err != nil {
			return err
		}

	}
	return nil
}

// YAML parser does not support deep merging, so every file is parsed into
// a new zero value of target's type and then merged with `mergo`.
// WARNING: this will crash if passed something other than a pointer
func newZeroFor(target interface{}) interface{} {
	return reflect.New(reflect.TypeOf(target).Elem()).Interface()
}

// ValidateConfiguration validates the fields of the provided struct against
// their `validate` tags. Validation errors are wrapped in ErrConfiguration.
func ValidateConfiguration(target interface{}) error {
	validate := validator.New()
	err := validate.Struct(target)
	if _, ok := err.(*validator.InvalidValidationError); ok {
		return fmt.Errorf("could not validate input (%v): %v", target, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// LoadCredentials reads the bot token and the audit log channel id
// using the provided lookup (os.LookupEnv in production). Both are
// required and the log channel id has to be an integer.
func LoadCredentials(lookup func(string) (string, bool)) (*Credentials, error) {
	token, _ := lookup(TokenEnv)
	token = strings.TrimSpace(token)
	if len(token) == 0 {
		return nil, fmt.Errorf(
			"%w: missing environment variable '%s'", ErrConfiguration, TokenEnv,
		)
	}
	channelID, _ := lookup(LogChannelIDEnv)
	channelID = strings.TrimSpace(channelID)
	if len(channelID) == 0 {
		return nil, fmt.Errorf(
			"%w: missing environment variable '%s'", ErrConfiguration, LogChannelIDEnv,
		)
	}
	if _, err := strconv.ParseUint(channelID, 10, 64); err != nil {
		return nil, fmt.Errorf(
			"%w: '%s' is not a valid channel id", ErrConfiguration, LogChannelIDEnv,
		)
	}
	return &Credentials{Token: token, LogChannelID: channelID}, nil
}
