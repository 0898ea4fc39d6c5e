package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dungeon-viewer/previewer/config"
	"dungeon-viewer/previewer/persistence"
	"dungeon-viewer/previewer/preview"
	"dungeon-viewer/previewer/services"
)

// app carries flags and shared state across commands
type app struct {
	configPath string
	mapName    string
	color      string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "dungeon-preview",
		Short: "Print a text preview of the dungeon viewer",
		Long: `Prints a static text mock-up of the dungeon viewer: the controls and
stats panel, a section of the dungeon grid, the legend and the list of
interactive features.

Run without arguments to preview the built-in sample dungeon.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPreview(contextOrBackground(cmd.Context()), cmd.OutOrStdout())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().StringVarP(&a.mapName, "map", "m", "", "stored map to preview (default: the sample)")
	root.Flags().StringVar(&a.color, "color", "", "colour glyphs: auto, always or never")

	root.AddCommand(a.serveCmd(), a.importCmd(), a.listCmd(), a.deleteCmd())
	return root
}

// setup loads the config and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("map") {
		cfg.Preview.Map = a.mapName
	}
	if cmd.Flags().Changed("color") {
		cfg.Preview.Color = a.color
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	zcfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	a.logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// openStore opens the configured map store
func (a *app) openStore(ctx context.Context) (persistence.Storage, error) {
	s := a.cfg.Storage
	return persistence.Open(ctx, s.Type, s.DatabaseURL, s.File, a.logger)
}

// newPreviewService wires the preview pipeline
func (a *app) newPreviewService(maps *services.MapService, color bool) *services.PreviewService {
	p := a.cfg.Preview
	renderer := preview.NewRenderer(preview.Options{
		Color:    color,
		HostHint: p.HostHint,
	})
	return services.NewPreviewService(maps,
		services.WithRenderer(renderer),
		services.WithViewport(services.NewViewport(p.SectionWidth, p.SectionHeight)),
		services.WithZoom(p.Zoom),
		services.WithHelpText(p.HelpText),
		services.WithLogger(a.logger))
}

func (a *app) runPreview(ctx context.Context, out io.Writer) error {
	name := a.cfg.Preview.Map

	// The sample needs no store; skip opening one so a plain run has no side effects
	var store persistence.Storage = persistence.NewMemoryStore()
	if name != "" && name != services.SampleMapName {
		var err error
		store, err = a.openStore(ctx)
		if err != nil {
			return err
		}
	}
	defer store.Close()

	maps := services.NewMapService(store, a.logger)
	return a.newPreviewService(maps, useColor(a.cfg.Preview.Color, out)).WriteTo(ctx, out, name)
}

// useColor resolves a colour mode against the output
func useColor(mode string, out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// contextOrBackground guards commands run without ExecuteContext
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
