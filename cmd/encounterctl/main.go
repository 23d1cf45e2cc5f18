package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/encounterctl/internal/command"
	"github.com/udisondev/encounterctl/internal/command/commands"
	"github.com/udisondev/encounterctl/internal/config"
	"github.com/udisondev/encounterctl/internal/db"
	"github.com/udisondev/encounterctl/internal/game"
	"github.com/udisondev/encounterctl/internal/save"
)

const ConfigPath = "config/encounterctl.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Stdin, os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.ReadCloser, out io.Writer) error {
	cfgPath := ConfigPath
	if p := os.Getenv("ENCOUNTERCTL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadHost(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))

	slog.Info("encounterctl starting",
		"log_level", cfg.LogLevel,
		"show_trace", cfg.Plugin.ShowTrace,
		"remain_across_save_load", cfg.Plugin.RemainAcrossSaveLoad,
		"save_store", cfg.SaveStore)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	session := game.NewSession(cfg, store, slog.Default())

	handler := command.NewHandler()
	commands.RegisterAll(handler, session, out)
	slog.Info("commands registered", "count", handler.CommandCount())

	lines := make(chan string)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(lines)
		return readLines(gctx, in, lines)
	})

	g.Go(func() error {
		return execute(gctx, handler, lines, out)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("command loop: %w", err)
	}

	slog.Info("encounterctl stopped")
	return nil
}

// openStore returns the configured save store and its cleanup.
func openStore(ctx context.Context, cfg config.Host) (save.Store, func(), error) {
	if cfg.SaveStore != config.SaveStorePostgres {
		return save.NewMemoryStore(), func() {}, nil
	}

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	return db.NewSaveRepository(database.Pool()), database.Close, nil
}

// readLines feeds input lines to the executor until EOF or shutdown.
// Shutdown closes the input so a blocked read returns.
func readLines(ctx context.Context, in io.ReadCloser, lines chan<- string) error {
	stop := context.AfterFunc(ctx, func() { _ = in.Close() })
	defer stop()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-ctx.Done():
			return nil
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}

// execute runs each line as a command. A failing command halts only
// itself; the script goes on with the next line.
func execute(ctx context.Context, h *command.Handler, lines <-chan string, out io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			found, err := h.Dispatch(ctx, line)
			switch {
			case err != nil:
				fmt.Fprintf(out, "error: %v\n", err)
			case !found:
				fmt.Fprintf(out, "unknown command: %s\n", strings.Fields(line)[0])
			}
		}
	}
}
