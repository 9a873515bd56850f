package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sitegear/sitegear/pkg/cache"
)

// Store persists sessions by token.
type Store interface {
	// Load returns ErrNotFound for an unknown token and ErrExpired for a
	// session past its expiry.
	Load(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, token string) error
}

// CacheStore keeps sessions as JSON in a cache. The same encoding is used
// for every backend, so an in-memory store behaves like a remote one.
type CacheStore struct {
	cache cache.Cache[[]byte]
}

// NewCacheStore creates a store over c. Use cache.RawCodec when c is Redis.
func NewCacheStore(c cache.Cache[[]byte]) *CacheStore {
	return &CacheStore{cache: c}
}

func (s *CacheStore) Load(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	data, err := s.cache.Get(ctx, token)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	if sess.IsExpired() {
		_ = s.cache.Delete(ctx, token)
		return nil, ErrExpired
	}
	if sess.Values == nil {
		sess.Values = make(map[string]any)
	}
	return &sess, nil
}

// Save writes s with a TTL matching its remaining lifetime.
func (s *CacheStore) Save(ctx context.Context, sess *Session) error {
	if sess.Token == "" {
		return ErrInvalidToken
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	sess.LastActiveAt = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := s.cache.Set(ctx, sess.Token, data, ttl); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	sess.ClearDirty()
	sess.ClearNew()
	return nil
}

func (s *CacheStore) Delete(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, token)
}

var _ Store = (*CacheStore)(nil)
