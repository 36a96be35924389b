package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/passman/internal/domain/model"
	"github.com/ericfisherdev/passman/internal/domain/port/driven"
)

var (
	// ErrNotFound is returned when no credential has the requested id.
	ErrNotFound = errors.New("password not found")

	// ErrNoPasswords is returned when a full listing finds an empty store.
	ErrNoPasswords = errors.New("no passwords to display")

	// ErrUsage marks invalid input that no storage call could satisfy.
	ErrUsage = errors.New("invalid usage")
)

// RewriteError reports a storage failure during rewrite-based removal. The
// rewrite runs in one transaction, so the table is left as it was before.
type RewriteError struct {
	ID  int64
	Err error
}

func (e *RewriteError) Error() string {
	return fmt.Sprintf("remove password %d: %v", e.ID, e.Err)
}

func (e *RewriteError) Unwrap() error { return e.Err }

// RemoveStrategy selects how a single credential is removed.
type RemoveStrategy string

const (
	// RemoveDelete deletes the one row and leaves every other id untouched.
	RemoveDelete RemoveStrategy = "delete"

	// RemoveRewrite deletes every row and reinserts the others, which assigns
	// them new ids. This is how databases written by earlier releases were
	// maintained.
	RemoveRewrite RemoveStrategy = "rewrite"
)

// ParseRemoveStrategy validates a strategy name.
func ParseRemoveStrategy(s string) (RemoveStrategy, error) {
	switch RemoveStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case RemoveDelete:
		return RemoveDelete, nil
	case RemoveRewrite:
		return RemoveRewrite, nil
	default:
		return "", fmt.Errorf("unknown remove strategy %q (want %q or %q)", s, RemoveDelete, RemoveRewrite)
	}
}

// UnmarshalText lets a strategy be decoded from configuration.
func (r *RemoveStrategy) UnmarshalText(text []byte) error {
	parsed, err := ParseRemoveStrategy(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// EntryService implements the user-facing credential operations on top of the
// CredentialStore port. Results are written as text lines to out.
type EntryService struct {
	store     driven.CredentialStore
	strategy  RemoveStrategy
	out       io.Writer
	highlight func(a ...any) string
	logger    *slog.Logger
}

// Option configures an EntryService.
type Option func(*EntryService)

// WithHighlight sets the function used to emphasise the fields of a removal
// notice, typically a terminal color.
func WithHighlight(fn func(a ...any) string) Option {
	return func(s *EntryService) {
		if fn != nil {
			s.highlight = fn
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *EntryService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewEntryService creates a new EntryService. An empty strategy means RemoveDelete.
func NewEntryService(store driven.CredentialStore, strategy RemoveStrategy, out io.Writer, opts ...Option) *EntryService {
	if strategy == "" {
		strategy = RemoveDelete
	}
	s := &EntryService{
		store:     store,
		strategy:  strategy,
		out:       out,
		highlight: fmt.Sprint,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add stores a new credential and reports its assigned id.
func (s *EntryService) Add(ctx context.Context, service, login, password string) (int64, error) {
	if service == "" || login == "" {
		return 0, fmt.Errorf("%w: service and login must not be empty", ErrUsage)
	}

	id, err := s.store.Insert(ctx, model.Credential{Service: service, Login: login, Password: password})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("credential added", "id", id, "service", service)
	fmt.Fprintf(s.out, "Password added with ID: %d\n", id)
	return id, nil
}

// Print writes the credential with the given id, or every credential when
// all is set. One of id or all is required.
func (s *EntryService) Print(ctx context.Context, all bool, id *int64) error {
	if all {
		creds, err := s.store.FindAll(ctx)
		if err != nil {
			return err
		}
		if len(creds) == 0 {
			return ErrNoPasswords
		}
		for _, c := range creds {
			fmt.Fprintln(s.out, c.String())
		}
		return nil
	}

	if id == nil {
		return fmt.Errorf("%w: an id or --all is required", ErrUsage)
	}

	cred, err := s.store.FindByID(ctx, *id)
	if err != nil {
		return err
	}
	if cred == nil {
		return fmt.Errorf("%w: id %d", ErrNotFound, *id)
	}

	fmt.Fprintln(s.out, cred.String())
	return nil
}

// Modify replaces the service, login and password of an existing credential.
func (s *EntryService) Modify(ctx context.Context, c model.Credential) error {
	if c.Service == "" || c.Login == "" {
		return fmt.Errorf("%w: service and login must not be empty", ErrUsage)
	}

	ok, err := s.store.UpdateByID(ctx, c)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, c.ID)
	}

	s.logger.Debug("credential modified", "id", c.ID)
	fmt.Fprintf(s.out, "Password %d has been modified\n", c.ID)
	return nil
}

// Remove deletes every credential when all is set, or the one with the given
// id using the configured strategy.
func (s *EntryService) Remove(ctx context.Context, id *int64, all bool) error {
	if all {
		if err := s.store.DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.store.EnsureSchema(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Passwords have been deleted")
		return nil
	}

	if id == nil {
		return fmt.Errorf("%w: an id or --all is required", ErrUsage)
	}

	switch s.strategy {
	case RemoveRewrite:
		return s.removeByRewrite(ctx, *id)
	default:
		return s.removeByID(ctx, *id)
	}
}

func (s *EntryService) removeByID(ctx context.Context, id int64) error {
	cred, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if cred == nil {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	ok, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	s.printRemoved(*cred)
	return nil
}

// removeByRewrite never reports a missing id; the remaining rows are
// renumbered either way.
func (s *EntryService) removeByRewrite(ctx context.Context, id int64) error {
	removed, err := s.store.RewriteWithout(ctx, id)
	if err != nil {
		return &RewriteError{ID: id, Err: err}
	}

	if removed == nil {
		s.logger.Debug("no credential matched rewrite removal", "id", id)
		return nil
	}

	s.logger.Debug("credentials rewritten", "removed_id", id)
	s.printRemoved(*removed)
	return nil
}

func (s *EntryService) printRemoved(c model.Credential) {
	fmt.Fprintf(s.out, "Remove: %s %s %s %s\n",
		s.highlight(c.ID), s.highlight(c.Service), s.highlight(c.Login), s.highlight(c.Password))
}
