package cache

import (
	"context"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

// Store is a typed Redis cache for exchange payloads and finished analyses.
// Values are msgpack-encoded; keys come from Key(kind, address) and TTLs from
// the configured TTLSet. Cache failures are logged and treated as misses so
// the read path falls through to the upstream service.
type Store struct {
	rds *redis.Redis
	ttl TTLSet
}

func NewStore(rds *redis.Redis, ttl TTLSet) *Store {
	return &Store{rds: rds, ttl: ttl}
}

// Get loads the cached payload for (kind, address) into out. The boolean
// reports whether the key was present and decoded.
func (s *Store) Get(ctx context.Context, kind Kind, address string, out any) (bool, error) {
	if s == nil || s.rds == nil {
		return false, nil
	}
	key := Key(kind, address)
	raw, err := s.rds.GetCtx(ctx, key)
	if err != nil {
		logx.WithContext(ctx).Errorf("cache get %s: %v", key, err)
		return false, err
	}
	// go-zero returns an empty string for missing keys.
	if raw == "" {
		return false, nil
	}
	if err := msgpack.Unmarshal([]byte(raw), out); err != nil {
		// A corrupt entry is a miss; overwrite it on the next Set.
		logx.WithContext(ctx).Errorf("cache decode %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

// Set stores value under (kind, address) with the TTL class configured for
// the kind.
func (s *Store) Set(ctx context.Context, kind Kind, address string, value any) error {
	if s == nil || s.rds == nil {
		return nil
	}
	key := Key(kind, address)
	data, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	ttl := s.ttl.For(kind)
	if ttl <= 0 {
		return s.rds.SetCtx(ctx, key, string(data))
	}
	return s.rds.SetexCtx(ctx, key, string(data), int(ttl.Seconds()))
}

// Invalidate drops the cached payload for (kind, address).
func (s *Store) Invalidate(ctx context.Context, kind Kind, address string) error {
	if s == nil || s.rds == nil {
		return nil
	}
	_, err := s.rds.DelCtx(ctx, Key(kind, address))
	return err
}
