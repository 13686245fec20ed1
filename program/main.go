package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tui "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// page
	PagePath    string
	Watch       bool
	StartOffset int
	WheelStep   int

	// render
	ViewSplit   int
	TraceFPS    int
	TracePoints int
	AltScreen   bool
	Mouse       bool

	// transitions window
	K           int
	TickSize    time.Duration
	WindowSize  time.Duration
	FullRefresh time.Duration

	StatsEnabled bool
	StatsWindow  int

	LogFile string
	Verbose bool
}

var config = Config{
	PagePath:    "",
	Watch:       false,
	StartOffset: 0,
	WheelStep:   3,

	ViewSplit:   65,
	TraceFPS:    10,
	TracePoints: 120,
	AltScreen:   true,
	Mouse:       true,

	K:           10,
	TickSize:    time.Second,
	WindowSize:  30 * time.Second,
	FullRefresh: 2 * time.Second,

	StatsEnabled: true,
	StatsWindow:  256,
}

var rootCmd = &cobra.Command{
	Use:   "sticky-sidebar",
	Short: "Scroll a page with sticky sidebars in the terminal",
	Long: `sticky-sidebar renders a page taller than the terminal with two sidebars.

A sidebar taller than the viewport stays pinned to the top while scrolling
down, hands off to the bottom of its container once its content runs out, and
does the reverse when scrolling up. Sidebars that fit the viewport simply stick
to the top.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&config.PagePath, "page", config.PagePath, "Read the page layout from this YAML file")
	f.BoolVar(&config.Watch, "watch", config.Watch, "Reload the page file when it changes (requires --page)")
	f.IntVar(&config.StartOffset, "start-offset", config.StartOffset, "Initial scroll offset in rows")
	f.IntVar(&config.WheelStep, "wheel-step", config.WheelStep, "Rows scrolled per mouse wheel notch")
	f.IntVar(&config.ViewSplit, "view-split", config.ViewSplit, "Split the view at this % of the total screen width [20,80]")
	f.IntVar(&config.TraceFPS, "trace-fps", config.TraceFPS, "Trace plot refresh rate (frames per second)")
	f.IntVar(&config.TracePoints, "trace-points", config.TracePoints, "Number of samples kept in the trace plot")
	f.BoolVar(&config.AltScreen, "alt-screen", config.AltScreen, "Use the terminal alternate screen buffer")
	f.BoolVar(&config.Mouse, "mouse", config.Mouse, "Scroll with the mouse wheel")
	f.IntVar(&config.K, "k", config.K, "Show the top K transitions")
	f.DurationVar(&config.TickSize, "tick", config.TickSize, "Transition window bucket size")
	f.DurationVar(&config.WindowSize, "window", config.WindowSize, "Transition window size")
	f.DurationVar(&config.FullRefresh, "full-refresh", config.FullRefresh, "How often to re-rank all transitions (0 = always)")
	f.BoolVar(&config.StatsEnabled, "stats", config.StatsEnabled, "Show panel and dispatch stats")
	f.IntVar(&config.StatsWindow, "stats-window", config.StatsWindow, "Number of recent samples kept per metric")
	f.StringVar(&config.LogFile, "log-file", config.LogFile, "Write JSON logs to this file (default: no logs)")
	f.BoolVar(&config.Verbose, "verbose", config.Verbose, "Log every panel transition")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := validateAndNormalizeConfig(); err != nil {
		return err
	}
	if !term.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("stdout is not a terminal")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(config.LogFile, config.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	page, err := loadPage(config.PagePath)
	if err != nil {
		return err
	}

	m := newModel(page, logger)
	defer m.close()

	opts := []tui.ProgramOption{tui.WithContext(ctx)}
	if config.AltScreen {
		opts = append(opts, tui.WithAltScreen())
	}
	if config.Mouse {
		opts = append(opts, tui.WithMouseCellMotion())
	}
	p := tui.NewProgram(m, opts...)

	if config.Watch {
		w, err := newPageWatcher(config.PagePath, p.Send, logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func validateAndNormalizeConfig() error {
	if config.Watch && config.PagePath == "" {
		return fmt.Errorf("--watch requires --page")
	}
	if config.StartOffset < 0 {
		return fmt.Errorf("--start-offset must be >= 0")
	}
	if config.WheelStep < 1 {
		return fmt.Errorf("--wheel-step must be >= 1")
	}
	if config.TraceFPS < 1 {
		return fmt.Errorf("--trace-fps must be >= 1")
	}
	if config.TracePoints < 2 {
		return fmt.Errorf("--trace-points must be >= 2")
	}
	if config.K < 1 {
		return fmt.Errorf("--k must be >= 1")
	}
	if config.TickSize <= 0 {
		return fmt.Errorf("--tick must be > 0")
	}
	if config.WindowSize < config.TickSize {
		return fmt.Errorf("--window must be >= --tick")
	}
	if config.WindowSize%config.TickSize != 0 {
		return fmt.Errorf("--window must be a multiple of --tick (got window=%s tick=%s)", config.WindowSize, config.TickSize)
	}
	if config.FullRefresh < 0 {
		return fmt.Errorf("--full-refresh must be >= 0")
	}
	config.ViewSplit = max(20, min(80, config.ViewSplit))
	config.StatsWindow = max(16, config.StatsWindow)
	return nil
}

// newLogger logs to a file, since the terminal belongs to the UI. Without a
// file, logging is discarded.
func newLogger(path string, verbose bool) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
