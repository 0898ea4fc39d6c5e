package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"dungeon-viewer/previewer/models"
)

// JSONStore handles map persistence using a local JSON file
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
	logger   *zap.Logger
}

// JSONData represents the structure of the JSON database
type JSONData struct {
	Maps map[string]*models.DungeonMap `json:"maps"`
}

// NewJSONStore creates a new JSON storage manager
func NewJSONStore(filePath string, logger *zap.Logger) (*JSONStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Maps: make(map[string]*models.DungeonMap),
		},
		logger: logger,
	}

	// Load existing data if file exists
	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else {
		// Create file if it doesn't exist
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	}

	logger.Debug("JSON store ready",
		zap.String("path", filePath),
		zap.Int("maps", len(store.data.Maps)))
	return store, nil
}

// loadFromFile loads data from the JSON file and decodes every map
func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Maps == nil {
		js.data.Maps = make(map[string]*models.DungeonMap)
	}

	for name, m := range js.data.Maps {
		if err := m.Decode(); err != nil {
			return fmt.Errorf("map %q: %w", name, err)
		}
	}
	return nil
}

// saveToFile saves data to the JSON file
func (js *JSONStore) saveToFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()
	return js.writeLocked()
}

// writeLocked marshals and replaces the file; the caller holds js.mutex.
// The temp file and rename keep a reader from seeing a partial write.
func (js *JSONStore) writeLocked() error {
	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(js.filePath), filepath.Base(js.filePath)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), js.filePath); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// SaveMap saves a map to the store
func (js *JSONStore) SaveMap(ctx context.Context, m *models.DungeonMap) error {
	stored := *m
	stored.Cells = m.Cells.Clone()
	stored.Rows = models.FormatGrid(m.Cells)

	js.mutex.Lock()
	defer js.mutex.Unlock()

	prev, existed := js.data.Maps[m.Name]
	if existed {
		stored.CreatedAt = prev.CreatedAt
	}
	js.data.Maps[m.Name] = &stored

	if err := js.writeLocked(); err != nil {
		if existed {
			js.data.Maps[m.Name] = prev
		} else {
			delete(js.data.Maps, m.Name)
		}
		return fmt.Errorf("failed to save map: %w", err)
	}
	return nil
}

// LoadMap loads a map by name
func (js *JSONStore) LoadMap(ctx context.Context, name string) (*models.DungeonMap, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	m, exists := js.data.Maps[name]
	if !exists {
		return nil, fmt.Errorf("map %q: %w", name, ErrMapNotFound)
	}

	out := *m
	out.Cells = m.Cells.Clone()
	out.Rows = append([]string(nil), m.Rows...)
	return &out, nil
}

// ListMaps returns the stored map names in sorted order
func (js *JSONStore) ListMaps(ctx context.Context) ([]string, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	names := make([]string, 0, len(js.data.Maps))
	for name := range js.data.Maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteMap removes a map and rewrites the file
func (js *JSONStore) DeleteMap(ctx context.Context, name string) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	prev, exists := js.data.Maps[name]
	if !exists {
		return fmt.Errorf("map %q: %w", name, ErrMapNotFound)
	}
	delete(js.data.Maps, name)

	if err := js.writeLocked(); err != nil {
		js.data.Maps[name] = prev
		return fmt.Errorf("failed to delete map: %w", err)
	}
	return nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}
