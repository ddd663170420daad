// Package linebuf provides the per-iteration console line buffer and
// its ownership discipline.
//
// The dispatcher acquires one Buffer per loop iteration and is the only
// holder of its Release capability. Handlers receive a Borrowed view,
// which can read, refill, and zero the buffer but cannot release it, so
// an early-returning handler cannot cause a double release by
// construction. Release is exactly-once: a second Release on the same
// buffer panics, and any use of a released buffer panics.
//
// The Pool counts acquisitions and releases so tests can assert the
// exactly-once property across every command path.
package linebuf

import (
	"bufio"
	"io"
)

// Capacity is the fixed size of a line buffer in bytes. A line can hold
// at most Capacity-1 content bytes; the remainder of an over-long line
// stays in the reader for the next iteration.
const Capacity = 16

// Pool hands out line buffers and accounts for their lifecycle.
type Pool struct {
	acquired int
	released int
}

// NewPool returns an empty pool.
func NewPool() *Pool { return &Pool{} }

// Acquire returns a fresh zeroed buffer owned by the caller. The caller
// must call Release exactly once.
func (p *Pool) Acquire() *Buffer {
	p.acquired++
	return &Buffer{pool: p}
}

// Acquired returns the number of buffers handed out.
func (p *Pool) Acquired() int { return p.acquired }

// Released returns the number of buffers released.
func (p *Pool) Released() int { return p.released }

// Balanced reports whether every acquired buffer has been released.
func (p *Pool) Balanced() bool { return p.acquired == p.released }

// Buffer is one fixed-capacity console line. Only its owner (the
// acquirer) holds the Release capability; everyone else sees a Borrowed
// view.
type Buffer struct {
	pool     *Pool
	data     [Capacity]byte
	n        int
	released bool
}

// Borrow returns a non-releasing view of the buffer for handing to a
// handler.
func (b *Buffer) Borrow() *Borrowed { return &Borrowed{b: b} }

// Release zeroes the buffer and returns it to the pool. Exactly one
// call is permitted; a second call is a lifecycle defect and panics.
func (b *Buffer) Release() {
	if b.released {
		panic("linebuf: buffer released twice")
	}
	b.released = true
	for i := range b.data {
		b.data[i] = 0
	}
	b.n = 0
	b.pool.released++
}

func (b *Buffer) check() {
	if b.released {
		panic("linebuf: use of released buffer")
	}
}

// Borrowed is a handler's view of a buffer: read, refill, and zero, but
// no release.
type Borrowed struct {
	b *Buffer
}

// ReadLine fills the buffer with the next console line, stripped of the
// trailing line terminator. At most Capacity-1 bytes are stored; if the
// line is longer, the unread remainder stays in r. Returns io.EOF when
// the input is exhausted before any byte is read.
func (v *Borrowed) ReadLine(r *bufio.Reader) error {
	v.b.check()
	v.Zero()

	n := 0
	for n < Capacity-1 {
		c, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && n > 0 {
				break
			}
			return err
		}
		if c == '\n' {
			break
		}
		v.b.data[n] = c
		n++
	}
	// Strip a carriage return left by CRLF input.
	if n > 0 && v.b.data[n-1] == '\r' {
		n--
		v.b.data[n] = 0
	}
	v.b.n = n
	return nil
}

// Bytes returns the live contents of the buffer. The slice aliases the
// buffer; it must not outlive the handler's borrow.
func (v *Borrowed) Bytes() []byte {
	v.b.check()
	return v.b.data[:v.b.n]
}

// String returns the contents as a string copy.
func (v *Borrowed) String() string {
	v.b.check()
	return string(v.b.data[:v.b.n])
}

// Zero overwrites the whole buffer with zero bytes. Used by handlers
// that loaded a secret into the buffer.
func (v *Borrowed) Zero() {
	v.b.check()
	for i := range v.b.data {
		v.b.data[i] = 0
	}
	v.b.n = 0
}
