package query

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nguyenthanhduc0901/clinic-app/pkg/logger"
)

// redisStore shares cached queries between processes; used by the web tier
// where several portal instances serve the same session store.
type redisStore struct {
	client    *redis.Client
	keyPrefix string
	log       *logger.Logger
}

func NewRedisStore(url string, log *logger.Logger) (Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &redisStore{
		client:    redis.NewClient(opts),
		keyPrefix: "clinic:query:",
		log:       log.WithComponent("query-redis"),
	}, nil
}

func (s *redisStore) Get(key string) ([]byte, bool) {
	data, err := s.client.Get(context.Background(), s.keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Error(err, "redis get failed", "key", key)
		}
		return nil, false
	}
	return data, true
}

func (s *redisStore) Set(key string, value []byte, ttl time.Duration) {
	if err := s.client.Set(context.Background(), s.keyPrefix+key, value, ttl).Err(); err != nil {
		s.log.Error(err, "redis set failed", "key", key)
	}
}

func (s *redisStore) Delete(key string) {
	if err := s.client.Del(context.Background(), s.keyPrefix+key).Err(); err != nil {
		s.log.Error(err, "redis del failed", "key", key)
	}
}

func (s *redisStore) DeletePrefix(prefix string) {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.keyPrefix+prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			s.log.Error(err, "redis del failed", "key", iter.Val())
		}
	}
	if err := iter.Err(); err != nil {
		s.log.Error(err, "redis scan failed", "prefix", prefix)
	}
}

func (s *redisStore) Flush() {
	s.DeletePrefix("")
}
