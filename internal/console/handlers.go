package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/minidb/internal/journal"
	"github.com/roach88/minidb/internal/linebuf"
	"github.com/roach88/minidb/internal/session"
)

// changeIdentity handles selector 2. "user" always demotes; "admin"
// prompts for the secret; anything else is rejected with no state
// change. The secret is read into the reused line buffer, copied out
// for verification, and both copies are zeroed before the dispatcher's
// release. The returned error is fatal (secret file unreadable), never
// a wrong-secret condition.
func (c *Console) changeIdentity(ctx context.Context, line *linebuf.Borrowed) error {
	name, ok := argument(line.String())
	if !ok {
		fmt.Fprintln(c.out, "Invalid username.")
		return nil
	}

	switch name {
	case session.RestrictedName:
		c.sess.Drop()
		fmt.Fprintln(c.out, "Switched to user.")
		c.journalEvent(ctx, journal.KindIdentityChanged, session.RestrictedName)
		return nil
	case session.PrivilegedName:
		// Fall through to the credential check.
	default:
		fmt.Fprintln(c.out, "Invalid username.")
		c.journalEvent(ctx, journal.KindIdentityRejected, name)
		return nil
	}

	fmt.Fprint(c.out, "Enter password: ")
	if err := line.ReadLine(c.in); err != nil && !errors.Is(err, io.EOF) {
		line.Zero()
		return fmt.Errorf("read password: %w", err)
	}
	// Erase the echoed secret from the terminal.
	fmt.Fprint(c.out, "\033[A\033[2K\r")

	typed := make([]byte, len(line.Bytes()))
	copy(typed, line.Bytes())
	line.Zero()

	match, err := c.verifier.Verify(typed)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if match {
		c.sess.Elevate()
		fmt.Fprintln(c.out, "Switched to admin.")
		c.journalEvent(ctx, journal.KindIdentityChanged, session.PrivilegedName)
	} else {
		fmt.Fprintln(c.out, "Incorrect password!")
		c.journalEvent(ctx, journal.KindIdentityRejected, session.PrivilegedName)
	}
	return nil
}

// query handles selector 3: scan for an exact name, or "*" for all.
func (c *Console) query(line *linebuf.Borrowed) {
	target, ok := argument(line.String())
	if !ok {
		fmt.Fprintln(c.out, "Invalid query.")
		return
	}

	recs, err := c.store.Scan(target)
	if err != nil {
		fmt.Fprintln(c.out, "Error reading database.")
		c.logger.Error("scan failed", "error", err)
		return
	}

	fmt.Fprintln(c.out, " id | name")
	fmt.Fprintln(c.out, "----+----------------")
	for _, r := range recs {
		fmt.Fprintf(c.out, "%3d | %s\n", r.ID, r.Name)
	}
	suffix := "ies"
	if len(recs) == 1 {
		suffix = "y"
	}
	fmt.Fprintf(c.out, "Found %d entr%s.\n", len(recs), suffix)
}

// insert handles selector 4. Gating happens in the dispatcher; by the
// time this runs the session is privileged.
func (c *Console) insert(ctx context.Context, line *linebuf.Borrowed) {
	name, ok := argument(line.String())
	if !ok {
		fmt.Fprintln(c.out, "Invalid entry.")
		return
	}

	rec, err := c.store.Append(name)
	if err != nil {
		fmt.Fprintln(c.out, "Error writing to database.")
		c.logger.Error("append failed", "error", err)
		return
	}
	fmt.Fprintf(c.out, "Entry added: %d | %s\n", rec.ID, rec.Name)
	c.journalEvent(ctx, journal.KindRecordInserted, rec.Name)
}

// wipe handles selector 5. The confirmation line is read into a
// second, handler-owned buffer whose lifecycle is fully decoupled from
// the per-iteration buffer. Only a leading 'y' truncates.
func (c *Console) wipe(ctx context.Context) {
	fmt.Fprint(c.out, "Are you sure you want to wipe the database? (y/N): ")

	confirm := c.pool.Acquire()
	defer confirm.Release()
	reply := confirm.Borrow()

	if err := reply.ReadLine(c.in); err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintln(c.out, "Aborted.")
		return
	}

	b := reply.Bytes()
	if len(b) == 0 || b[0] != 'y' {
		fmt.Fprintln(c.out, "Aborted.")
		c.journalEvent(ctx, journal.KindWipeDeclined, "")
		return
	}

	fmt.Fprintln(c.out, "Wiping database...")
	if err := c.store.Wipe(); err != nil {
		fmt.Fprintln(c.out, "Error wiping database.")
		c.logger.Error("wipe failed", "error", err)
		return
	}
	fmt.Fprintln(c.out, "Database wiped!")
	c.journalEvent(ctx, journal.KindStoreWiped, "")
}

// parseSelector extracts the leading integer from a command line.
// Empty or non-numeric input yields 0, an inert selector, not an
// error.
func parseSelector(line string) int {
	s := strings.TrimLeft(line, " \t")
	i, neg := 0, false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n, start := 0, i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

// argument returns the second whitespace-delimited token of the line.
func argument(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}
