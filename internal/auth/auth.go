// Package auth verifies the typed administrative secret against a
// reference secret kept in a local file.
//
// The secret file is a deployment precondition: if it cannot be read,
// the process has no way to gate privileged operations and must stop.
// The reference secret is re-read on every attempt and zeroed after the
// comparison, as is the typed secret, so neither outlives the check.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roach88/minidb/internal/record"
)

// Verifier checks typed secrets against the reference secret file.
type Verifier struct {
	path string
}

// New returns a Verifier for the secret file at path. The file is
// probed once so a missing or unreadable file fails at startup rather
// than at the first login attempt.
func New(path string) (*Verifier, error) {
	ref, err := load(path)
	if err != nil {
		return nil, err
	}
	Zero(ref)
	return &Verifier{path: path}, nil
}

// Verify compares typed against the reference secret using a bounded,
// constant-time equality check over at most record.Width bytes. Both
// the typed secret and the freshly loaded reference are zeroed before
// return, regardless of outcome.
//
// An error means the secret file disappeared or became unreadable since
// startup; that is fatal to the session, not a wrong-secret condition.
func (v *Verifier) Verify(typed []byte) (bool, error) {
	ref, err := load(v.path)
	if err != nil {
		Zero(typed)
		return false, err
	}

	var a, b [record.Width]byte
	copy(a[:], typed)
	copy(b[:], ref)
	ok := subtle.ConstantTimeCompare(a[:], b[:]) == 1

	Zero(a[:])
	Zero(b[:])
	Zero(ref)
	Zero(typed)
	return ok, nil
}

// Zero overwrites b with zero bytes.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// load reads the reference secret, bounded to the record width, with
// trailing line terminators and NUL padding stripped.
func load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open secret file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, record.Width)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read secret file: %w", err)
	}
	secret := buf[:n]
	for len(secret) > 0 {
		switch secret[len(secret)-1] {
		case '\n', '\r', 0:
			secret = secret[:len(secret)-1]
		default:
			return secret, nil
		}
	}
	return secret, nil
}
