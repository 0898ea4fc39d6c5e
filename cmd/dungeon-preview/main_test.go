package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dungeon-viewer/previewer/config"
	"dungeon-viewer/previewer/models"
	"dungeon-viewer/previewer/persistence"
	"dungeon-viewer/previewer/preview"
	"dungeon-viewer/previewer/services"
)

func setEnv(t *testing.T, dbFile string) {
	t.Helper()
	for _, k := range []string{"DATABASE_URL", "PORT", "PREVIEW_MAP", "PREVIEW_ZOOM", "PREVIEW_COLOR"} {
		t.Setenv(k, "")
	}
	t.Setenv("DB_TYPE", "json")
	t.Setenv("DB_FILE", dbFile)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	if args == nil {
		// cobra falls back to os.Args when given nil
		args = []string{}
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootPrintsSample(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "maps.json")
	setEnv(t, dbFile)

	got, err := run(t)
	require.NoError(t, err)

	var want bytes.Buffer
	require.NoError(t, preview.Render(&want, models.SampleStats(), models.SampleGrid(), models.SampleHelpText()))
	assert.Equal(t, want.String(), got)

	// Previewing the sample leaves no store behind
	_, err = os.Stat(dbFile)
	assert.True(t, os.IsNotExist(err))
}

func TestImportListPreviewDelete(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, filepath.Join(dir, "maps.json"))

	rows := make([]string, 24)
	for y := range rows {
		rows[y] = strings.Repeat("#", 36)
		if y > 0 && y < len(rows)-1 {
			rows[y] = "#" + strings.Repeat(".", 34) + "#"
		}
	}
	mapFile := filepath.Join(dir, "hall.txt")
	require.NoError(t, os.WriteFile(mapFile, []byte(strings.Join(rows, "\n")+"\n"), 0644))

	out, err := run(t, "import", "hall", mapFile)
	require.NoError(t, err)
	assert.Equal(t, "Stored hall (36x24)\n", out)

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "hall\n", out)

	out, err = run(t, "--map", "hall", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "Grid: 36x24")
	assert.Contains(t, out, "Tiles: 864 (100.0%)")
	assert.Contains(t, out, "Rooms: 1")
	assert.Contains(t, out, "Dungeon View (sample 30x20 section)")

	_, err = run(t, "delete", "hall")
	require.NoError(t, err)
	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPreviewErrors(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, filepath.Join(dir, "maps.json"))

	_, err := run(t, "--map", "nowhere")
	assert.Error(t, err)

	_, err = run(t, "--color", "sepia")
	assert.Error(t, err)

	ragged := filepath.Join(dir, "ragged.txt")
	require.NoError(t, os.WriteFile(ragged, []byte("###\n#\n"), 0644))
	_, err = run(t, "import", "ragged", ragged)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")

	_, err = run(t, "import", "only-name")
	assert.Error(t, err)
}

func TestColorAlways(t *testing.T) {
	setEnv(t, filepath.Join(t.TempDir(), "maps.json"))

	out, err := run(t, "--color", "always")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")

	out, err = run(t)
	require.NoError(t, err)
	assert.NotContains(t, out, "\x1b[")
}

func TestServePreviewsArePlain(t *testing.T) {
	setEnv(t, filepath.Join(t.TempDir(), "maps.json"))
	t.Setenv("PREVIEW_COLOR", "always")

	a := &app{}
	require.NoError(t, a.setup(newRootCmd()))
	require.Equal(t, config.ColorAlways, a.cfg.Preview.Color)

	maps := services.NewMapService(persistence.NewMemoryStore(), a.logger)
	result, err := a.servePreviews(maps).Preview(context.Background(), "")
	require.NoError(t, err)
	assert.NotContains(t, strings.Join(result.Lines, "\n"), "\x1b[")
}

func TestReadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.txt")
	require.NoError(t, os.WriteFile(path, []byte("##\r\n  \r\n\n\n"), 0644))

	rows, err := readRows(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"##", "  "}, rows)

	_, err = readRows(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
