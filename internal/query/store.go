package query

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is where resolved query payloads live between the fetch and the end
// of their staleness window. Values are stored encoded so process-local and
// shared (Redis) stores behave identically.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	DeletePrefix(prefix string)
	Flush()
}

// memoryStore is the default single-process store.
type memoryStore struct {
	c *gocache.Cache
}

func NewMemoryStore(cleanupInterval time.Duration) Store {
	return &memoryStore{c: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (s *memoryStore) Get(key string) ([]byte, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}

func (s *memoryStore) Set(key string, value []byte, ttl time.Duration) {
	s.c.Set(key, value, ttl)
}

func (s *memoryStore) Delete(key string) {
	s.c.Delete(key)
}

func (s *memoryStore) DeletePrefix(prefix string) {
	for key := range s.c.Items() {
		if strings.HasPrefix(key, prefix) {
			s.c.Delete(key)
		}
	}
}

func (s *memoryStore) Flush() {
	s.c.Flush()
}
