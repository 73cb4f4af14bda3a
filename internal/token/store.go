package token

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/nguyenthanhduc0901/clinic-app/internal/config"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/logger"
)

// The credential lives under a single logical key. Older builds stored it
// under a key containing '/', which some secure stores reject; reads probe
// those keys and migrate the value forward.
const currentKey = "auth.token"

var legacyKeys = []string{"auth/token"}

// Store persists the single bearer credential. The secure (encrypted)
// backend is preferred whenever it is available; availability is checked
// on every call because it can change at runtime.
type Store struct {
	secure Backend
	plain  Backend
	log    *logger.Logger
}

func NewStore(cfg config.TokenConfig, log *logger.Logger) *Store {
	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		dir = filepath.Join(home, ".clinic-app")
	}

	return &Store{
		secure: newEncryptedBackend(filepath.Join(dir, "secure"), cfg.Passphrase),
		plain:  newFileBackend(dir),
		log:    log.WithComponent("token"),
	}
}

func (s *Store) backend() Backend {
	if s.secure.Available() {
		return s.secure
	}
	return s.plain
}

// Get returns the stored credential, or "" when none exists. It never
// fails outward: backend errors are logged and treated as no token.
func (s *Store) Get() string {
	b := s.backend()

	value, err := b.Get(currentKey)
	if err == nil && value != "" {
		return value
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Error(err, "failed to read credential")
		return ""
	}

	for _, legacy := range legacyKeys {
		value, err := b.Get(legacy)
		if err != nil || value == "" {
			continue
		}
		if err := b.Set(currentKey, value); err != nil {
			s.log.Error(err, "failed to migrate credential to current key")
		}
		if err := b.Delete(legacy); err != nil {
			s.log.Warn("failed to remove legacy credential", "key", legacy)
		}
		return value
	}

	return ""
}

// Set persists the credential. Failures propagate: the login flow depends
// on knowing the token was actually stored.
func (s *Store) Set(token string) error {
	return s.backend().Set(currentKey, token)
}

// Clear removes the credential from the current key and every legacy key,
// across both backends. Individual deletion failures are logged only.
func (s *Store) Clear() {
	keys := append([]string{currentKey}, legacyKeys...)
	for _, b := range []Backend{s.secure, s.plain} {
		if !b.Available() {
			continue
		}
		for _, key := range keys {
			if err := b.Delete(key); err != nil {
				s.log.Warn("failed to delete credential", "key", key)
			}
		}
	}
}
