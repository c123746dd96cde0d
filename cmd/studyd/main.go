package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sandeepkv93/studyd/internal/clock"
	"github.com/sandeepkv93/studyd/internal/config"
	"github.com/sandeepkv93/studyd/internal/logging"
	"github.com/sandeepkv93/studyd/internal/notify"
	"github.com/sandeepkv93/studyd/internal/planner"
	"github.com/sandeepkv93/studyd/internal/scheduler"
	"github.com/sandeepkv93/studyd/internal/storage"
	"github.com/sandeepkv93/studyd/internal/update"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "studyd failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg := config.RuntimeConfigFromEnv(config.DefaultRuntimeConfig())

	fs := pflag.NewFlagSet("studyd", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	exportPath := fs.String("export", "", "write a JSON backup to this path and exit")
	importPath := fs.String("import", "", "restore a JSON backup from this path and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer kv.Close()

	engine := scheduler.NewEngineWithClock(cfg.SchedulerBuffer, clock.Real())
	engine.Start()
	defer engine.Stop()

	// The desktop gate reads settings from the planner built below.
	var p *planner.Planner
	toasts := notify.NewBuffer(32)
	sinks := notify.Multi{toasts, notify.Log{Logger: logger}}
	if cfg.DesktopNotifications {
		sinks = append(sinks, notify.Gate{
			Sink:    notify.NewDesktop(logger),
			Enabled: func() bool { return p != nil && p.Settings().Notifications },
		})
	}

	p, err = planner.New(ctx, kv, engine, planner.WithLogger(logger), planner.WithSink(sinks))
	if err != nil {
		return err
	}
	logger.Info("studyd started", zap.String("db", cfg.DBPath), zap.Int("tasks", len(p.AllTasks())))

	switch {
	case *exportPath != "":
		return exportTo(p, *exportPath)
	case *importPath != "":
		return importFrom(ctx, p, *importPath)
	}

	model := update.NewModel(p, update.Options{
		Toasts:        toasts,
		SweepInterval: cfg.SweepInterval,
		Context:       ctx,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func exportTo(p *planner.Planner, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.Export(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func importFrom(ctx context.Context, p *planner.Planner, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := p.Import(ctx, f); err != nil {
		return err
	}
	fmt.Printf("imported %s (%d tasks)\n", path, len(p.AllTasks()))
	return nil
}
