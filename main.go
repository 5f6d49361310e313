package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sadopc/studybuddy/internal/achievement"
	"github.com/sadopc/studybuddy/internal/config"
	"github.com/sadopc/studybuddy/internal/store"
	"github.com/sadopc/studybuddy/internal/timer"
	"github.com/sadopc/studybuddy/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// options are the persistent flags shared by every command.
type options struct {
	dbPath   string
	logLevel string
	envFile  string
}

// deps is everything a command needs, opened from one database.
type deps struct {
	cfg          config.Config
	logger       *log.Logger
	sessions     *store.Sessions
	prefs        *store.PreferencesStore
	achievements *achievement.Engine
	durations    *store.FocusDuration
	closers      []io.Closer
}

func (d *deps) Close() error {
	var first error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (d *deps) newEngine() *timer.Engine {
	return timer.NewEngine(d.sessions, d.achievements, d.durations, d.logger)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "studybuddy",
		Short:         "Focus timer with study stats, streaks and achievements",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (default: $STUDYBUDDY_DB_PATH or the user config dir)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load")

	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newAchievementsCmd(opts))
	root.AddCommand(newGoalCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newFocusCmd(opts))
	return root
}

// open resolves configuration and opens the stores. Logs go to logOut, or
// to the configured log file when logOut is nil.
func (o *options) open(logOut io.Writer) (*deps, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.logLevel != "" {
		if cfg.LogLevel, err = config.ParseLevel(o.logLevel); err != nil {
			return nil, err
		}
	}

	d := &deps{cfg: cfg}
	if logOut == nil {
		f, err := cfg.OpenLogFile()
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, f)
		logOut = f
	}
	d.logger = cfg.NewLogger(logOut)

	s, err := store.New(cfg.DBPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	d.closers = append(d.closers, s)
	d.logger.Debug("database opened", "path", cfg.DBPath)

	d.sessions = store.NewSessions(s, d.logger)
	d.prefs = store.NewPreferencesStore(s, d.logger)
	d.durations = store.NewFocusDuration(s, d.logger)
	d.achievements = achievement.NewEngine(d.sessions, store.NewUnlocks(s, d.logger), d.logger)
	return d, nil
}

func runTUI(cmd *cobra.Command, opts *options) error {
	d, err := opts.open(nil)
	if err != nil {
		return err
	}
	defer d.Close()

	app := tui.NewApp(d.sessions, d.prefs, d.achievements, d.newEngine(), d.logger)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
