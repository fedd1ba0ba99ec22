package inmemorycache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"ulascansenturk/weather-lookup/internal/providers"
)

type cacheEntry struct {
	data       []byte
	expiration time.Time
}

// InMemoryCache is a process-local providers.CoordinateCache.
type InMemoryCache struct {
	cache           map[string]cacheEntry
	mutex           sync.Mutex
	cleanupInterval time.Duration
	done            chan struct{}
	closeOnce       sync.Once
}

func NewInMemoryCacheProvider(cleanupInterval time.Duration) *InMemoryCache {
	provider := &InMemoryCache{
		cache:           make(map[string]cacheEntry),
		cleanupInterval: cleanupInterval,
		done:            make(chan struct{}),
	}

	go provider.startCleanup()

	return provider
}

func (m *InMemoryCache) Get(_ context.Context, key string) (*providers.Coordinate, bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	entry, exists := m.cache[key]
	if !exists {
		return nil, false, nil
	}

	if time.Now().After(entry.expiration) {
		delete(m.cache, key)
		return nil, false, nil
	}

	var coord providers.Coordinate
	if err := json.Unmarshal(entry.data, &coord); err != nil {
		return nil, false, err
	}

	return &coord, true, nil
}

func (m *InMemoryCache) Set(_ context.Context, key string, coord providers.Coordinate, ttl time.Duration) error {
	jsonData, err := json.Marshal(coord)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.cache[key] = cacheEntry{
		data:       jsonData,
		expiration: time.Now().Add(ttl),
	}

	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *InMemoryCache) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return len(m.cache)
}

// Close stops the cleanup goroutine.
func (m *InMemoryCache) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}

func (m *InMemoryCache) startCleanup() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mutex.Lock()
			now := time.Now()
			for k, v := range m.cache {
				if now.After(v.expiration) {
					delete(m.cache, k)
				}
			}
			m.mutex.Unlock()
		}
	}
}
