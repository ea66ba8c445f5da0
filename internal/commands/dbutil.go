package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/lunchpick/internal/app"
	"github.com/dotcommander/lunchpick/internal/lunch"
	"github.com/dotcommander/lunchpick/internal/models"
	"github.com/dotcommander/lunchpick/internal/output"
	"github.com/dotcommander/lunchpick/internal/store"
	"github.com/dotcommander/lunchpick/pkg/memory"
)

const firstRunHelp = `Welcome to lunchpick.
  lunchpick add --name "Pho" --distance 300   add a lunch option
  lunchpick pick                              let fate decide
  lunchpick eat --id <id>                     mark an option as eaten
  lunchpick share                             print a link to share your list
  lunchpick import <link>                     merge someone else's list into yours
`

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// The JSON error response is the output.
	return "error already printed"
}

func (e printedError) Unwrap() error { return e.err }

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// kvBackend is what commands need from either backend.
type kvBackend interface {
	lunch.Backend
	Keys(ctx context.Context) ([]string, error)
}

// openBackend returns the key-value backend for the resolved DB path.
// ":memory:" gets an in-process map that lives for this invocation only.
func openBackend() (kvBackend, func(), error) {
	dbPath, err := app.GetDBPath()
	if err != nil {
		return nil, nil, err
	}
	if dbPath == ":memory:" {
		return memory.New(), func() {}, nil
	}

	db, err := store.InitDB()
	if err != nil {
		return nil, nil, err
	}
	return store.NewKV(db), func() { _ = db.Close() }, nil
}

// withStore opens the backend, shows first-run help once, and runs fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, s *lunch.Store) error) error {
	ctx := cmdContext(cmd)

	backend, closeBackend, err := openBackend()
	if err != nil {
		return cmdErr(cmd, err)
	}
	defer closeBackend()

	if first, err := lunch.FirstVisit(ctx, backend); err != nil {
		slog.Warn("could not record first visit", "error", err.Error())
	} else if first {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), firstRunHelp)
	}

	if err := fn(ctx, lunch.NewStore(backend)); err != nil {
		return cmdErr(cmd, err)
	}
	return nil
}

// cmdErr logs err, prints the JSON error envelope and returns a printedError
// so Execute does not report it a second time.
func cmdErr(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	var pe printedError
	if errors.As(err, &pe) {
		return err
	}

	attrs := []any{"error", err.Error()}
	var detailed models.RecoverableError
	if errors.As(err, &detailed) {
		attrs = append(attrs, "code", detailed.ErrorCode())
		for k, v := range detailed.Context() {
			attrs = append(attrs, k, v)
		}
	}
	slog.Error("command error", attrs...)

	_ = output.PrintError(cmd.OutOrStdout(), err)
	return printedError{err: err}
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
// Anything but y/yes, including EOF, is a no.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", prompt)

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
