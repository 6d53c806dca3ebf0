package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/agenda"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/calendar"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/config"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/engine"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/store"
)

// app is what a command needs once configuration is resolved.
type app struct {
	cfg    *config.Config
	store  *store.Store
	svc    *agenda.Service
	out    *OutputFormatter
	logger *slog.Logger
	owner  string
}

// newFormatter builds the formatter for a command.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// withApp loads configuration, opens the store, runs fn and closes the store.
func withApp(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	out := newFormatter(opts, cmd)

	cfg, err := config.Load(config.Options{
		File:        opts.ConfigFile,
		SearchPaths: config.DefaultSearchPaths(),
	})
	if err != nil {
		_ = out.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.DatabasePath = opts.Database
	}
	if opts.Owner != "" {
		cfg.Owner = opts.Owner
	}

	// Configure logging based on config and verbose flag
	logLevel, _ := cfg.Level()
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logWriter := opts.LogWriter
	if logWriter == nil {
		logWriter = cmd.ErrOrStderr()
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	}))

	logger.Debug("opening database", "path", cfg.DatabasePath, "config", cfg.File)
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		_ = out.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	cal := opts.Calendar
	if cal == nil {
		loc, _ := cfg.Location()
		cal = calendar.System{Location: loc}
	}

	engineOpts := []engine.Option{engine.WithLogger(logger)}
	agendaOpts := []agenda.Option{agenda.WithLogger(logger)}
	if opts.IDs != nil {
		engineOpts = append(engineOpts, engine.WithIDGenerator(opts.IDs))
		agendaOpts = append(agendaOpts, agenda.WithIDGenerator(opts.IDs))
	}
	if opts.Now != nil {
		engineOpts = append(engineOpts, engine.WithNow(opts.Now))
		agendaOpts = append(agendaOpts, agenda.WithNow(opts.Now))
	}
	eng := engine.New(st, st, engineOpts...)

	a := &app{
		cfg:    cfg,
		store:  st,
		svc:    agenda.New(st, eng, cal, agendaOpts...),
		out:    out,
		logger: logger,
		owner:  cfg.Owner,
	}

	// Use command's context if available (for testing), otherwise create one
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, a)
}
