package cache

import (
	"context"
	"encoding/json"
	"time"

	domainCache "product-catalog-api/internal/domain/cache"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Store implements a read-through cache on Redis. Values are stored
// JSON-encoded. Concurrent callers may race to repopulate an expired key;
// the recomputation is a pure read, so the race only costs a redundant
// store query and needs no locking.
type Store struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewStore(client *redis.Client, log *logrus.Logger) *Store {
	return &Store{
		client: client,
		log:    log,
	}
}

var _ domainCache.Store = (*Store)(nil)

// Remember decodes the cached value for key into dest. On a miss it invokes
// compute, caches the encoded result for ttl and decodes that into dest.
// A Redis failure degrades to computing directly; the request is not failed
// over an unavailable cache backend.
func (s *Store) Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, compute func(ctx context.Context) (interface{}, error)) error {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		if decodeErr := json.Unmarshal(payload, dest); decodeErr == nil {
			return nil
		}
		s.log.WithField("key", key).Warn("Discarding undecodable cache entry")
	} else if err != redis.Nil {
		s.log.WithError(err).WithField("key", key).Warn("Cache read failed, computing directly")
	}

	value, err := compute(ctx)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, key, encoded, ttl).Err(); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Cache write failed")
	}

	return json.Unmarshal(encoded, dest)
}
