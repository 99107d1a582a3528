// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a very basic key/value store.
type Store interface {
	Get(string) string
	Set(string, string, time.Duration) error
	Del(string) error
}

var (
	store     Store = NewMemStore()
	storeOnce sync.Once
)

// InitStore sets the process store. It can be called once, before anything
// uses the store; subsequent calls are ignored.
func InitStore(s Store) {
	storeOnce.Do(func() {
		store = s
	})
}

// SetJSON stores a value as a JSON string.
func SetJSON(key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(key, string(data), expiration)
}

// GetJSON retrieves a value as a JSON string. The value is left untouched
// when the key is not in the store.
func GetJSON(key string, value any) error {
	data := store.Get(key)
	if data == "" {
		return nil
	}

	return json.Unmarshal([]byte(data), value)
}

// DelKey removes a key from the store.
func DelKey(key string) error {
	return store.Del(key)
}

// RedisStore implements [Store] with redis. The prefix is used for each
// key operation.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore returns a [RedisStore] instance.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		prefix: prefix,
	}
}

func (s *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

// Get returns a value for the given key. Returns an empty string when the
// value does not exist.
func (s *RedisStore) Get(key string) string {
	res, err := s.rdb.Get(context.Background(), s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return ""
	}

	return res
}

// Set inserts or replaces the value for the given key.
func (s *RedisStore) Set(key, value string, expiration time.Duration) error {
	_, err := s.rdb.Set(context.Background(), s.key(key), value, expiration).Result()
	return err
}

// Del removes the given key.
func (s *RedisStore) Del(key string) error {
	_, err := s.rdb.Del(context.Background(), s.key(key)).Result()
	return err
}

// MemStore is a [Store] implementation using a simple in memory map.
type MemStore struct {
	sync.RWMutex
	data   map[string]string
	timers map[string]*time.Timer
}

// NewMemStore returns a [MemStore] instance.
func NewMemStore() *MemStore {
	return &MemStore{
		data:   make(map[string]string),
		timers: make(map[string]*time.Timer),
	}
}

// Get returns a value for the given key. Returns an empty string when the
// value does not exist.
func (s *MemStore) Get(key string) string {
	s.RLock()
	defer s.RUnlock()
	return s.data[key]
}

// Set inserts or replaces the value for the given key.
func (s *MemStore) Set(key, value string, expiration time.Duration) error {
	s.Lock()
	defer s.Unlock()
	s.data[key] = value

	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
	if expiration > 0 {
		s.timers[key] = time.AfterFunc(expiration, func() {
			s.Del(key) //nolint:errcheck
		})
	}

	return nil
}

// Del removes the given key.
func (s *MemStore) Del(key string) error {
	s.Lock()
	defer s.Unlock()
	delete(s.data, key)
	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}

	return nil
}
