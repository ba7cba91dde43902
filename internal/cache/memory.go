package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore is an in-process Store used when Redis is unreachable. Entries
// expire after the TTL the store was built with; SetEx's ttl argument is
// ignored because every entry shares the one fixed TTL anyway.
type MemoryStore struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryStore builds a bounded store holding at most size entries.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 1024
	}
	return &MemoryStore{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.lru.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) SetEx(_ context.Context, key string, _ time.Duration, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	s.lru.Add(key, cp)
	return nil
}

func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.lru.Peek(key)
	return ok, nil
}

func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.lru.Remove(k)
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	s.lru.Purge()
	return nil
}
