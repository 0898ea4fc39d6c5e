package persistence

import (
	"context"
	"errors"

	"dungeon-viewer/previewer/models"
)

// ErrMapNotFound is returned when no map is stored under the requested name
var ErrMapNotFound = errors.New("map not found")

// Storage defines the interface for dungeon map persistence
type Storage interface {
	SaveMap(ctx context.Context, m *models.DungeonMap) error
	LoadMap(ctx context.Context, name string) (*models.DungeonMap, error)
	ListMaps(ctx context.Context) ([]string, error)
	DeleteMap(ctx context.Context, name string) error
	Close() error
}
