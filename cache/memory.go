package cache

import (
	"context"
	"sync"
	"time"
)

// Memory 简单的内存缓存
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	stop  chan struct{}
	once  sync.Once
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an in-process store that sweeps expired entries every
// cleanupEvery until Close is called.
func NewMemory(cleanupEvery time.Duration) *Memory {
	m := &Memory{
		items: make(map[string]memoryItem),
		stop:  make(chan struct{}),
	}
	go m.cleanupExpired(cleanupEvery)
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[key]
	if !ok || time.Now().After(item.expiresAt) {
		return nil, false, nil
	}
	return item.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	buf := make([]byte, len(value))
	copy(buf, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryItem{value: buf, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for key, item := range m.items {
				if now.After(item.expiresAt) {
					delete(m.items, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
