package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"dungeon-viewer/previewer/models"
)

// PostgresStore handles map persistence using PostgreSQL
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStore creates a new PostgreSQL storage manager
func NewPostgresStore(ctx context.Context, connectionString string, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db, logger: logger}

	// Initialize the database schema
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema initializes the database schema
func (ps *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS dungeon_maps (
		id SERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		rows JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := ps.db.ExecContext(ctx, schema)
	return err
}

// SaveMap upserts a map by name
func (ps *PostgresStore) SaveMap(ctx context.Context, m *models.DungeonMap) error {
	rowsJSON, err := json.Marshal(models.FormatGrid(m.Cells))
	if err != nil {
		return fmt.Errorf("failed to marshal map rows: %w", err)
	}

	query := `
	INSERT INTO dungeon_maps (name, width, height, rows)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (name)
	DO UPDATE SET
		width = $2, height = $3, rows = $4,
		updated_at = NOW()
	`

	_, err = ps.db.ExecContext(ctx, query,
		m.Name, m.Cells.Width(), m.Cells.Height(), string(rowsJSON))
	if err != nil {
		return fmt.Errorf("failed to save map: %w", err)
	}

	ps.logger.Debug("Map saved", zap.String("name", m.Name))
	return nil
}

// LoadMap loads a map from the database by name
func (ps *PostgresStore) LoadMap(ctx context.Context, name string) (*models.DungeonMap, error) {
	query := `SELECT name, rows, created_at, updated_at FROM dungeon_maps WHERE name = $1`

	var m models.DungeonMap
	var rowsJSON string

	err := ps.db.QueryRowContext(ctx, query, name).Scan(
		&m.Name, &rowsJSON, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("map %q: %w", name, ErrMapNotFound)
		}
		return nil, fmt.Errorf("failed to load map: %w", err)
	}

	if err := json.Unmarshal([]byte(rowsJSON), &m.Rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal map rows: %w", err)
	}
	if err := m.Decode(); err != nil {
		return nil, fmt.Errorf("failed to decode map %q: %w", name, err)
	}

	return &m, nil
}

// ListMaps returns the stored map names in sorted order
func (ps *PostgresStore) ListMaps(ctx context.Context) ([]string, error) {
	rows, err := ps.db.QueryContext(ctx, `SELECT name FROM dungeon_maps ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list maps: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan map name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteMap removes a map by name
func (ps *PostgresStore) DeleteMap(ctx context.Context, name string) error {
	res, err := ps.db.ExecContext(ctx, `DELETE FROM dungeon_maps WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete map: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("map %q: %w", name, ErrMapNotFound)
	}
	return nil
}

// Close closes the database connection
func (ps *PostgresStore) Close() error {
	ps.logger.Info("Closing database connection")
	return ps.db.Close()
}
