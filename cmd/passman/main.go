package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	sqliteadapter "github.com/ericfisherdev/passman/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/passman/internal/adapter/driving/cli"
	"github.com/ericfisherdev/passman/internal/config"
	"github.com/ericfisherdev/passman/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Logger first so config problems are visible with --verbose too.
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// 2. Load configuration (.env, then environment).
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	level.Set(cfg.LogLevel)
	slog.Debug("config loaded",
		"db_path", cfg.DBPath,
		"log_level", cfg.LogLevel,
		"remove_strategy", cfg.RemoveStrategy,
	)

	// 3. Cancel in-flight statements on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Build and execute the command tree.
	root := cli.NewRootCommand(cli.Options{
		DBPath:   cfg.DBPath,
		Strategy: cfg.RemoveStrategy,
		Version:  version(),
		Open:     openStore,
		Logger:   logger,
		LogLevel: level,
	})
	return root.ExecuteContext(ctx)
}

// openStore opens the database, ensures the password table exists and
// returns the repository together with the handle that closes it.
func openStore(ctx context.Context, dbPath string) (driven.CredentialStore, io.Closer, error) {
	db, err := sqliteadapter.NewDB(ctx, dbPath)
	if err != nil {
		return nil, nil, err
	}

	repo := sqliteadapter.NewCredentialRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	slog.Debug("migrations complete", "path", dbPath)

	return repo, db, nil
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "devel"
	}
	return info.Main.Version
}
