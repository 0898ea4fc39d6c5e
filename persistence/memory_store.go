package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"dungeon-viewer/previewer/models"
)

// MemoryStore keeps maps in process memory
type MemoryStore struct {
	maps  map[string]*models.DungeonMap
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{maps: make(map[string]*models.DungeonMap)}
}

// SaveMap stores a copy of the map
func (ms *MemoryStore) SaveMap(ctx context.Context, m *models.DungeonMap) error {
	stored := *m
	stored.Cells = m.Cells.Clone()
	stored.Rows = append([]string(nil), m.Rows...)

	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	if prev, ok := ms.maps[m.Name]; ok {
		stored.CreatedAt = prev.CreatedAt
	}
	ms.maps[m.Name] = &stored
	return nil
}

// LoadMap returns a copy of the named map
func (ms *MemoryStore) LoadMap(ctx context.Context, name string) (*models.DungeonMap, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	m, exists := ms.maps[name]
	if !exists {
		return nil, fmt.Errorf("map %q: %w", name, ErrMapNotFound)
	}
	out := *m
	out.Cells = m.Cells.Clone()
	out.Rows = append([]string(nil), m.Rows...)
	return &out, nil
}

// ListMaps returns the stored map names in sorted order
func (ms *MemoryStore) ListMaps(ctx context.Context) ([]string, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	names := make([]string, 0, len(ms.maps))
	for name := range ms.maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteMap removes the named map
func (ms *MemoryStore) DeleteMap(ctx context.Context, name string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if _, exists := ms.maps[name]; !exists {
		return fmt.Errorf("map %q: %w", name, ErrMapNotFound)
	}
	delete(ms.maps, name)
	return nil
}

// Close is a no-op for the memory store
func (ms *MemoryStore) Close() error {
	return nil
}
