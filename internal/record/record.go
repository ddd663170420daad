// Package record defines the fixed-width on-disk record layout.
//
// A record is exactly Width bytes: a 1-byte id followed by NameCap bytes
// of name, NUL-padded when shorter than the capacity and truncated when
// longer. The store file is a dense array of these records with no
// header or framing, so record boundaries are pure byte arithmetic.
package record

import "bytes"

const (
	// Width is the total on-disk size of one record in bytes.
	Width = 16

	// NameCap is the maximum stored name length in bytes.
	NameCap = Width - 1
)

// Record is one entry in the store.
type Record struct {
	ID   uint8
	Name string
}

// Encode marshals the record into its Width-byte on-disk form.
// Names longer than NameCap are truncated; shorter names are NUL-padded.
func (r Record) Encode() []byte {
	buf := make([]byte, Width)
	buf[0] = r.ID
	copy(buf[1:], r.Name)
	return buf
}

// Decode unmarshals one record from b, which must hold at least Width
// bytes. The name is truncated at the first NUL, matching how every
// consumer treats the name field.
func Decode(b []byte) Record {
	name := b[1:Width]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return Record{ID: b[0], Name: string(name)}
}

// NameEqual reports whether a stored name matches a query target using
// bounded bytewise equality over at most Width bytes.
func NameEqual(a, b string) bool {
	if len(a) > Width {
		a = a[:Width]
	}
	if len(b) > Width {
		b = b[:Width]
	}
	return a == b
}
