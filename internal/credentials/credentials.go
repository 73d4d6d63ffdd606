// Package credentials holds the upstream API secret.
//
// Stores are read on every upstream call, so rotating the environment
// variable takes effect without a restart.
package credentials

import (
	"os"
	"strings"
)

// Store yields the current API key. An empty string means "not configured".
type Store interface {
	APIKey() string
}

// EnvStore reads the key from an environment variable on each call.
type EnvStore struct {
	Name string
}

func (s EnvStore) APIKey() string {
	return strings.TrimSpace(os.Getenv(s.Name))
}

// Static is a fixed key, typically from the config file or a CLI flag.
type Static string

func (s Static) APIKey() string {
	return strings.TrimSpace(string(s))
}

// FromConfig prefers a static key and falls back to the environment.
func FromConfig(staticKey, envName string) Store {
	if strings.TrimSpace(staticKey) != "" {
		return Static(staticKey)
	}
	return EnvStore{Name: envName}
}
