// Package vio provides the byte I/O abstraction consumed by the block codec
// and the save container: a small capability set (read, write, seek, tell,
// write-repeat) uniform over an in-memory buffer and a file handle, with
// byte counters for diagnostics.
//
// The shape mirrors internal/bufseekio.ReadSeeker in the teacher package,
// generalized to also cover writes and a fixed-size memory backend instead
// of only buffering an existing io.ReadSeeker.
package vio

import (
	"io"

	"github.com/gbdev-tools/lsdsav/errs"
)

// Whence values for Seek, re-exported so callers don't need to import io
// just to call Seek.
const (
	SeekStart   = io.SeekStart
	SeekCurrent = io.SeekCurrent
	SeekEnd     = io.SeekEnd
)

// Counter accumulates the number of bytes moved through a Reader or Writer.
// Callers pass their own *Counter (or nil) to every call that supports one;
// a nil Counter is a valid no-op receiver.
type Counter struct {
	N int64
}

// Add increments the counter by n. Add is safe to call on a nil *Counter.
func (c *Counter) Add(n int) {
	if c == nil {
		return
	}
	c.N += int64(n)
}

// Reader is the read side of the byte I/O abstraction: positioned reads plus
// seek/tell.
type Reader interface {
	// Read reads exactly len(dst) bytes, or returns an *errs.Error of kind
	// KindIO on a short read or underlying failure.
	Read(dst []byte, counter *Counter) error
	// Seek moves the cursor per whence (SeekStart/SeekCurrent/SeekEnd).
	Seek(offset int64, whence int) error
	// Tell returns the current absolute cursor position.
	Tell() (int64, error)
}

// Writer is the write side of the byte I/O abstraction.
type Writer interface {
	// Write writes all of src, or returns an *errs.Error of kind KindIO.
	Write(src []byte, counter *Counter) error
	// WriteRepeat writes pattern to the stream count times back-to-back.
	WriteRepeat(pattern []byte, count int, counter *Counter) error
	// Seek moves the cursor per whence (SeekStart/SeekCurrent/SeekEnd).
	Seek(offset int64, whence int) error
	// Tell returns the current absolute cursor position.
	Tell() (int64, error)
}

// ReadWriter combines Reader and Writer, as required by round-trip helpers
// that both decode and re-encode against the same backing store.
type ReadWriter interface {
	Reader
	Writer
}

func ioErr(op string, err error) error {
	return errs.Wrap(errs.KindIO, op, err)
}

// ioReaderAdapter adapts a Reader to the standard io.Reader interface so it
// can be handed to ecosystem byte-reading helpers (e.g.
// github.com/mewkiz/pkg/readerutil.ReadByte) that expect one.
type ioReaderAdapter struct {
	r Reader
	c *Counter
}

func (a *ioReaderAdapter) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := a.r.Read(p, a.c); err != nil {
		return 0, err
	}
	return len(p), nil
}

// AsIOReader adapts r to io.Reader, attributing every byte moved through it
// to counter (which may be nil).
func AsIOReader(r Reader, counter *Counter) io.Reader {
	return &ioReaderAdapter{r: r, c: counter}
}
