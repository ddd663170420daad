// Package store implements the append-only record file.
//
// The file is a dense array of record.Width-byte records with no header
// or index. Identity assignment is byte arithmetic: a new record's id is
// the pre-append record count truncated to 8 bits, so ids wrap and alias
// earlier records once the store holds more than 256 entries. That
// wraparound is intentional, documented behavior; the store logs a
// warning the first time an append assigns an aliasing id instead of
// wrapping silently.
package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/minidb/internal/record"
)

// ErrCorrupt indicates the file length is not a whole number of records.
var ErrCorrupt = errors.New("store: file length is not a multiple of the record width")

// ErrShortWrite indicates an append persisted fewer bytes than one
// record. The store is left however the file layer left it; callers
// must not assume atomicity from the file layer.
var ErrShortWrite = errors.New("store: short write, record not committed")

// idSpace is the number of distinct ids an 8-bit identifier can hold.
const idSpace = 256

// Store is the append-only record file. It is owned by a single command
// loop; operations are strictly sequential and unsynchronized.
type Store struct {
	fh     FileHandle
	logger *slog.Logger
	warned bool
}

// Open opens (creating if absent) the record file at path and validates
// its length. A length that is not a multiple of record.Width is a
// corruption signal and fails the open.
func Open(path string, logger *slog.Logger) (*Store, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open record file: %w", err)
	}
	s, err := New(NewFileHandle(f), logger)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// New builds a Store over an already-open file handle. Used directly by
// tests to inject faulty handles.
func New(fh FileHandle, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	size, err := fh.Size()
	if err != nil {
		return nil, fmt.Errorf("stat record file: %w", err)
	}
	if size%record.Width != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorrupt, size)
	}
	return &Store{fh: fh, logger: logger}, nil
}

// Count returns the number of whole records currently in the file.
func (s *Store) Count() (int, error) {
	size, err := s.fh.Size()
	if err != nil {
		return 0, fmt.Errorf("stat record file: %w", err)
	}
	return int(size / record.Width), nil
}

// Append writes one record at end-of-file and returns it. The id is the
// pre-append record count modulo the id space. A write that persists
// fewer than record.Width bytes returns ErrShortWrite; the record is not
// considered committed and no rollback is attempted.
func (s *Store) Append(name string) (record.Record, error) {
	size, err := s.fh.Size()
	if err != nil {
		return record.Record{}, fmt.Errorf("stat record file: %w", err)
	}
	count := size / record.Width

	rec := record.Record{ID: uint8(count % idSpace), Name: truncName(name)}
	if count >= idSpace && !s.warned {
		s.warned = true
		s.logger.Warn("record id space exhausted, new ids alias earlier records",
			"count", count, "id", rec.ID)
	}

	n, err := s.fh.WriteAt(rec.Encode(), size)
	if err != nil {
		return record.Record{}, fmt.Errorf("append record: %w", err)
	}
	if n != record.Width {
		return record.Record{}, fmt.Errorf("%w: wrote %d of %d bytes", ErrShortWrite, n, record.Width)
	}
	return rec, nil
}

// Scan reads every record from the start of the file and returns those
// whose name matches query. A query of "*" matches all records. Each
// call re-scans the whole file.
func (s *Store) Scan(query string) ([]record.Record, error) {
	count, err := s.Count()
	if err != nil {
		return nil, err
	}
	matchAll := query == "*"

	var out []record.Record
	buf := make([]byte, record.Width)
	for i := 0; i < count; i++ {
		if _, err := s.fh.ReadAt(buf, int64(i)*record.Width); err != nil && err != io.EOF {
			return nil, fmt.Errorf("read record %d: %w", i, err)
		}
		rec := record.Decode(buf)
		if matchAll || record.NameEqual(rec.Name, query) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Wipe truncates the file to zero length. Irreversible; interactive
// confirmation is the caller's responsibility.
func (s *Store) Wipe() error {
	if err := s.fh.Truncate(0); err != nil {
		return fmt.Errorf("wipe record file: %w", err)
	}
	s.warned = false
	return nil
}

// Close closes the underlying file.
func (s *Store) Close() error {
	return s.fh.Close()
}

// truncName bounds a name to the stored capacity.
func truncName(name string) string {
	if len(name) > record.NameCap {
		return name[:record.NameCap]
	}
	return name
}
