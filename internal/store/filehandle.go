package store

import "os"

// FileHandle abstracts the record file so tests can inject I/O faults
// (short writes, read errors) without touching the filesystem.
type FileHandle interface {
	// ReadAt reads len(b) bytes starting at byte offset off.
	ReadAt(b []byte, off int64) (int, error)
	// WriteAt writes len(b) bytes starting at byte offset off.
	// It may persist fewer bytes than requested; callers must check.
	WriteAt(b []byte, off int64) (int, error)
	// Truncate changes the size of the file.
	Truncate(size int64) error
	// Size returns the current file length in bytes.
	Size() (int64, error)
	// Close closes the handle.
	Close() error
}

type osFile struct {
	f *os.File
}

// NewFileHandle wraps an *os.File into a FileHandle.
func NewFileHandle(f *os.File) FileHandle { return &osFile{f: f} }

func (h *osFile) ReadAt(b []byte, off int64) (int, error)  { return h.f.ReadAt(b, off) }
func (h *osFile) WriteAt(b []byte, off int64) (int, error) { return h.f.WriteAt(b, off) }
func (h *osFile) Truncate(size int64) error                { return h.f.Truncate(size) }
func (h *osFile) Close() error                             { return h.f.Close() }

func (h *osFile) Size() (int64, error) {
	info, err := h.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
