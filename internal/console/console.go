// Package console implements the interactive command loop.
//
// The loop owns one line buffer per iteration. It acquires the buffer,
// reads a command into it, hands handlers a borrowed (non-releasing)
// view, and releases the buffer at a single structural point after the
// handler returns. Handlers have no release capability, so no handler
// branch early-return included can release the buffer a second time or
// leave it unreleased. A handler that needs a second line (the wipe
// confirmation) acquires and releases its own buffer, decoupled from
// the per-iteration one.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/minidb/internal/auth"
	"github.com/roach88/minidb/internal/journal"
	"github.com/roach88/minidb/internal/linebuf"
	"github.com/roach88/minidb/internal/session"
	"github.com/roach88/minidb/internal/store"
)

// Command selectors, as typed at the menu prompt.
const (
	selQuit           = 1
	selChangeIdentity = 2
	selQuery          = 3
	selInsert         = 4
	selWipe           = 5
)

// Options configures a Console.
type Options struct {
	Input    io.Reader
	Output   io.Writer
	Store    *store.Store
	Verifier *auth.Verifier

	// Journal is optional; nil disables audit journaling.
	Journal *journal.Journal

	// Pool is optional; tests inject one to assert buffer accounting.
	Pool *linebuf.Pool

	// Logger is optional; nil means slog.Default().
	Logger *slog.Logger
}

// Console runs the command loop for one session. Strictly sequential:
// one command completes before the next is read.
type Console struct {
	in        *bufio.Reader
	out       io.Writer
	store     *store.Store
	verifier  *auth.Verifier
	journal   *journal.Journal
	sess      *session.Session
	pool      *linebuf.Pool
	logger    *slog.Logger
	sessionID string
}

// New builds a Console starting in the restricted role.
func New(opts Options) *Console {
	pool := opts.Pool
	if pool == nil {
		pool = linebuf.NewPool()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		in:        bufio.NewReader(opts.Input),
		out:       opts.Output,
		store:     opts.Store,
		verifier:  opts.Verifier,
		journal:   opts.Journal,
		sess:      session.New(),
		pool:      pool,
		logger:    logger,
		sessionID: uuid.NewString(),
	}
}

// Run executes the command loop until the quit selector or end of
// input. Returns nil on a clean quit; a non-nil error is fatal to the
// session (secret file gone, console read failure).
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Welcome to database manager!")
	for {
		c.printMenu()
		quit, err := c.step(ctx)
		if err != nil {
			return err
		}
		if quit {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}
	}
}

// step runs one loop iteration. The per-iteration buffer is acquired
// here and released here; the deferred Release is the only release
// point, reached on every path through every handler.
func (c *Console) step(ctx context.Context) (quit bool, err error) {
	buf := c.pool.Acquire()
	defer buf.Release()
	line := buf.Borrow()

	if err := line.ReadLine(c.in); err != nil {
		if errors.Is(err, io.EOF) {
			// Input exhausted; behave as quit.
			return true, nil
		}
		return false, fmt.Errorf("read command: %w", err)
	}

	sel := parseSelector(line.String())
	c.logger.Debug("command received", "selector", sel, "role", c.sess.Name())

	switch sel {
	case selQuit:
		return true, nil
	case selChangeIdentity:
		return false, c.changeIdentity(ctx, line)
	case selQuery:
		c.query(line)
	case selInsert:
		// Gated: silently a no-op unless privileged.
		if c.sess.Privileged() {
			c.insert(ctx, line)
		}
	case selWipe:
		if c.sess.Privileged() {
			c.wipe(ctx)
		}
	}
	return false, nil
}

func (c *Console) printMenu() {
	fmt.Fprintf(c.out, "\nLogged in as: %s\n", c.sess.Name())
	fmt.Fprintln(c.out, "1) Quit")
	fmt.Fprintln(c.out, "2) Change <user>")
	fmt.Fprintln(c.out, "3) Query <something|*>")
	if c.sess.Privileged() {
		fmt.Fprintln(c.out, "4) Insert <entry> into database")
		fmt.Fprintln(c.out, "5) Wipe database")
	}
	fmt.Fprint(c.out, "Enter your choice: ")
}

// journalEvent appends an audit event. Journal failures are reported
// and swallowed; they never break the command loop.
func (c *Console) journalEvent(ctx context.Context, kind, detail string) {
	if c.journal == nil {
		return
	}
	if err := c.journal.Record(ctx, c.sessionID, kind, detail); err != nil {
		c.logger.Warn("journal append failed", "kind", kind, "error", err)
	}
}
