// Package cli is the command-line driving adapter. It parses arguments with
// cobra, opens the credential store and dispatches to the EntryService.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/passman/internal/application"
	"github.com/ericfisherdev/passman/internal/domain/port/driven"
)

// OpenFunc opens the credential store at dbPath with its schema in place.
// The returned io.Closer releases the underlying connection.
type OpenFunc func(ctx context.Context, dbPath string) (driven.CredentialStore, io.Closer, error)

// Options carries everything the command tree needs from the composition root.
type Options struct {
	DBPath   string
	Strategy application.RemoveStrategy
	Version  string
	Open     OpenFunc
	Logger   *slog.Logger
	LogLevel *slog.LevelVar

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type app struct {
	opts    Options
	dbPath  string
	verbose bool
}

// NewRootCommand builds the passman command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "passman",
		Short: "Store service/login/password entries in a local database",
		Long: `passman keeps service, login and password entries in a local SQLite file.

Passwords are stored in plaintext. Anyone who can read the database file can
read every password in it.`,
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.verbose && a.opts.LogLevel != nil {
				a.opts.LogLevel.Set(slog.LevelDebug)
			}
		},
	}
	root.SetIn(opts.Stdin)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	root.PersistentFlags().StringVar(&a.dbPath, "db", opts.DBPath, "path to the database file")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "log diagnostic output to stderr")

	root.AddCommand(
		a.newAddCommand(),
		a.newPrintCommand(),
		a.newModifyCommand(),
		a.newRemoveCommand(),
	)

	return root
}

// withService opens the store, runs fn with an EntryService bound to the
// command's output and closes the store afterwards.
func (a *app) withService(cmd *cobra.Command, strategy application.RemoveStrategy, fn func(*application.EntryService) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, closer, err := a.opts.Open(ctx, a.dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closer.Close(); closeErr != nil {
			a.opts.Logger.Error("error closing database", "error", closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()
	a.opts.Logger.Debug("database opened", "path", a.dbPath)

	svc := application.NewEntryService(store, strategy, cmd.OutOrStdout(),
		application.WithHighlight(highlight),
		application.WithLogger(a.opts.Logger),
	)
	return fn(svc)
}

// parseID parses a credential id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: id must be a positive integer, got %q", application.ErrUsage, s)
	}
	return id, nil
}

// optionalID parses the first positional argument when present.
func optionalID(args []string) (*int64, error) {
	if len(args) == 0 {
		return nil, nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
