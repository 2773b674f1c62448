package vio

import (
	"io"
	"os"

	"github.com/gbdev-tools/lsdsav/internal/bufseekio"
)

// File is the file-handle binding of the byte I/O abstraction: reads and
// seeks go through a buffered bufseekio.ReadSeeker (the decoder reads a
// block's opcode stream one byte at a time, so unbuffered syscalls would
// dominate decode time); writes go straight to the underlying *os.File,
// since bufseekio only buffers the read side. A File used for Write calls
// is therefore write-only in practice: interleaving Write with Read/Seek/
// Tell on the same File desyncs the read buffer's notion of position from
// the file's actual offset. Read and Write paths in this module never mix
// on one File (Read drives lsdsav.Read; Write's block-compression sink is
// always a vio.Mem, and its other writes are sequential and never seek
// back past a prior write).
type File struct {
	f  *os.File
	rs *bufseekio.ReadSeeker
}

// NewFile wraps an already-opened file handle. The caller retains ownership
// and must Close it.
func NewFile(f *os.File) *File {
	return &File{f: f, rs: bufseekio.NewReadSeeker(f)}
}

// Open opens path for reading and writing and wraps it.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, ioErr("vio.Open", err)
	}
	return NewFile(f), nil
}

// Create creates (or truncates) path for writing and wraps it.
func Create(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, ioErr("vio.Create", err)
	}
	return NewFile(f), nil
}

// Close closes the underlying file handle.
func (fv *File) Close() error {
	return fv.f.Close()
}

// Read reads exactly len(dst) bytes from the current file position.
func (fv *File) Read(dst []byte, counter *Counter) error {
	n, err := io.ReadFull(fv.rs, dst)
	counter.Add(n)
	if err != nil {
		return ioErr("vio.File.Read", err)
	}
	return nil
}

// Write writes all of src at the current file position.
func (fv *File) Write(src []byte, counter *Counter) error {
	n, err := fv.f.Write(src)
	counter.Add(n)
	if err != nil {
		return ioErr("vio.File.Write", err)
	}
	return nil
}

// WriteRepeat writes pattern to the file count times back-to-back.
func (fv *File) WriteRepeat(pattern []byte, count int, counter *Counter) error {
	for i := 0; i < count; i++ {
		if err := fv.Write(pattern, counter); err != nil {
			return err
		}
	}
	return nil
}

// Seek moves the file cursor per whence, keeping the read buffer consistent
// with the underlying file's position.
func (fv *File) Seek(offset int64, whence int) error {
	_, err := fv.rs.Seek(offset, whence)
	if err != nil {
		return ioErr("vio.File.Seek", err)
	}
	return nil
}

// Tell returns the current absolute file position.
func (fv *File) Tell() (int64, error) {
	pos, err := fv.rs.Seek(0, SeekCurrent)
	if err != nil {
		return 0, ioErr("vio.File.Tell", err)
	}
	return pos, nil
}
