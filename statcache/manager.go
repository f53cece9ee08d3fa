package statcache

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"
)

// Source computes one collection's summary from the system of record.
type Source func(ctx context.Context) (*Summary, error)

// Manager keeps dashboard summaries in Redis with compute-on-miss
// fallback. Sources stay authoritative; Redis only saves recomputing
// every aggregate on each dashboard hit.
type Manager struct {
	mu      sync.RWMutex
	redis   *RedisStore
	sources map[string]Source
}

func NewManager(redis *RedisStore) *Manager {
	return &Manager{
		redis:   redis,
		sources: make(map[string]Source),
	}
}

// Register adds a collection's summary source.
func (m *Manager) Register(collection string, src Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[collection] = src
}

// Collections returns the registered collection names, sorted.
func (m *Manager) Collections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sources))
	for name := range m.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a collection's summary, preferring Redis. On miss or Redis
// error the source is consulted and the result written back.
func (m *Manager) Get(ctx context.Context, collection string) (*Summary, error) {
	if m.redis != nil {
		if s, err := m.redis.GetSummary(ctx, collection); err == nil && s != nil {
			return s, nil
		}
	}
	return m.Refresh(ctx, collection)
}

// GetAll returns summaries for every registered collection. Collections
// whose source fails are skipped with a log line rather than failing the
// whole dashboard.
func (m *Manager) GetAll(ctx context.Context) map[string]*Summary {
	out := make(map[string]*Summary)
	for _, name := range m.Collections() {
		s, err := m.Get(ctx, name)
		if err != nil {
			log.Printf("statcache: summary for %s: %v", name, err)
			continue
		}
		out[name] = s
	}
	return out
}

// Refresh recomputes one collection from its source and updates Redis.
func (m *Manager) Refresh(ctx context.Context, collection string) (*Summary, error) {
	m.mu.RLock()
	src, ok := m.sources[collection]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	s, err := src(ctx)
	if err != nil {
		return nil, err
	}
	s.Collection = collection
	s.UpdatedAt = time.Now()
	if m.redis != nil {
		if err := m.redis.SetSummary(ctx, s); err != nil {
			log.Printf("statcache: cache %s: %v", collection, err)
		}
	}
	return s, nil
}

// SyncFromSources rebuilds the whole cache. Called on startup and after
// bulk changes like seeding.
func (m *Manager) SyncFromSources(ctx context.Context) {
	if m.redis != nil {
		m.redis.FlushAll(ctx)
	}
	n := 0
	for _, name := range m.Collections() {
		if _, err := m.Refresh(ctx, name); err != nil {
			log.Printf("statcache: sync %s: %v", name, err)
			continue
		}
		n++
	}
	log.Printf("statcache: synced %d collections to redis", n)
}

// Invalidate recomputes one collection in the background, typically
// after a record mutation.
func (m *Manager) Invalidate(collection string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := m.Refresh(ctx, collection); err != nil {
			log.Printf("statcache: invalidate %s: %v", collection, err)
		}
	}()
}
