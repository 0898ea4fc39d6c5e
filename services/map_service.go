package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dungeon-viewer/previewer/models"
	"dungeon-viewer/previewer/persistence"
)

// SampleMapName selects the built-in sample dungeon
const SampleMapName = "sample"

// MapService manages stored dungeon maps
type MapService struct {
	db     persistence.Storage
	logger *zap.Logger
}

// NewMapService creates a new map service
func NewMapService(db persistence.Storage, logger *zap.Logger) *MapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MapService{db: db, logger: logger}
}

// Import parses markup rows and stores them under name
func (ms *MapService) Import(ctx context.Context, name string, rows []string) (*models.DungeonMap, error) {
	if name == SampleMapName {
		return nil, &models.ValidationError{Field: "name", Row: -1,
			Reason: fmt.Sprintf("%q is reserved for the built-in sample", SampleMapName)}
	}

	cells, err := models.ParseGrid(rows)
	if err != nil {
		return nil, err
	}
	m, err := models.NewDungeonMap(name, cells)
	if err != nil {
		return nil, err
	}

	if err := ms.db.SaveMap(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to import map %q: %w", name, err)
	}

	ms.logger.Info("Map imported",
		zap.String("name", name),
		zap.Int("width", m.Width),
		zap.Int("height", m.Height))
	return m, nil
}

// Get loads a map by name
func (ms *MapService) Get(ctx context.Context, name string) (*models.DungeonMap, error) {
	return ms.db.LoadMap(ctx, name)
}

// List returns the stored map names
func (ms *MapService) List(ctx context.Context) ([]string, error) {
	return ms.db.ListMaps(ctx)
}

// Delete removes a stored map
func (ms *MapService) Delete(ctx context.Context, name string) error {
	if err := ms.db.DeleteMap(ctx, name); err != nil {
		return err
	}
	ms.logger.Info("Map deleted", zap.String("name", name))
	return nil
}
