package services

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"dungeon-viewer/previewer/models"
	"dungeon-viewer/previewer/preview"
)

// PreviewResult is one rendered preview
type PreviewResult struct {
	Map     string           `json:"map"`
	Stats   models.GridStats `json:"stats"`
	Section models.CellGrid  `json:"-"`
	Lines   []string         `json:"lines"`
}

// PreviewService renders previews of stored or sample maps
type PreviewService struct {
	maps     *MapService
	renderer *preview.Renderer
	viewport *Viewport
	zoom     float64
	help     []string
	logger   *zap.Logger
}

// Option configures the PreviewService
type Option func(*PreviewService)

// WithRenderer replaces the plain renderer
func WithRenderer(r *preview.Renderer) Option {
	return func(ps *PreviewService) {
		ps.renderer = r
	}
}

// WithViewport sets the section cropped out of stored maps
func WithViewport(v *Viewport) Option {
	return func(ps *PreviewService) {
		ps.viewport = v
	}
}

// WithZoom sets the zoom factor reported for stored maps
func WithZoom(z float64) Option {
	return func(ps *PreviewService) {
		ps.zoom = models.ClampZoom(z)
	}
}

// WithHelpText replaces the feature list
func WithHelpText(lines []string) Option {
	return func(ps *PreviewService) {
		ps.help = append([]string(nil), lines...)
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(ps *PreviewService) {
		if l != nil {
			ps.logger = l
		}
	}
}

// NewPreviewService creates a new preview service
func NewPreviewService(maps *MapService, opts ...Option) *PreviewService {
	ps := &PreviewService{
		maps:     maps,
		renderer: preview.NewRenderer(preview.Options{}),
		viewport: NewViewport(DefaultSectionWidth, DefaultSectionHeight),
		zoom:     1.0,
		help:     models.SampleHelpText(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ps)
	}
	return ps
}

// Preview renders the named map. An empty name or SampleMapName selects the
// built-in sample; stored maps report stats over the whole map and show the
// centred viewport section.
func (ps *PreviewService) Preview(ctx context.Context, name string) (*PreviewResult, error) {
	stats, section, err := ps.resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	lines, err := ps.renderer.Lines(stats, section, ps.help)
	if err != nil {
		return nil, fmt.Errorf("failed to render preview of %q: %w", name, err)
	}

	if name == "" {
		name = SampleMapName
	}
	ps.logger.Debug("Preview rendered",
		zap.String("map", name),
		zap.Int("lines", len(lines)),
		zap.Float64("occupied_pct", stats.OccupiedPercentage()))

	return &PreviewResult{Map: name, Stats: stats, Section: section, Lines: lines}, nil
}

// WriteTo renders the named map straight to w
func (ps *PreviewService) WriteTo(ctx context.Context, w io.Writer, name string) error {
	stats, section, err := ps.resolve(ctx, name)
	if err != nil {
		return err
	}
	return ps.renderer.Render(w, stats, section, ps.help)
}

func (ps *PreviewService) resolve(ctx context.Context, name string) (models.GridStats, models.CellGrid, error) {
	if name == "" || name == SampleMapName {
		stats := models.SampleStats()
		stats.ZoomFactor = ps.zoom
		return stats, models.SampleGrid(), nil
	}

	m, err := ps.maps.Get(ctx, name)
	if err != nil {
		return models.GridStats{}, nil, fmt.Errorf("failed to load map %q: %w", name, err)
	}

	stats, err := models.StatsFor(m.Cells, ps.zoom)
	if err != nil {
		return models.GridStats{}, nil, err
	}
	return stats, ps.viewport.Crop(m.Cells), nil
}
