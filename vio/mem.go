package vio

import (
	"io"

	"github.com/gbdev-tools/lsdsav/errs"
)

// Mem is a bounds-checked in-memory binding of the byte I/O abstraction. It
// operates directly on a caller-owned, fixed-size byte slice: it never grows
// the backing buffer, matching the fixed-size nature of a save file's block
// area. Reads and writes past the end of the buffer fail with KindIO rather
// than silently truncating or panicking.
type Mem struct {
	buf []byte
	pos int64
}

// NewMem wraps buf for sequential reads and writes starting at offset 0. The
// returned *Mem aliases buf; callers that need an independent copy should
// pass a copy of their data.
func NewMem(buf []byte) *Mem {
	return &Mem{buf: buf}
}

// Bytes returns the backing buffer, unchanged by the cursor position.
func (m *Mem) Bytes() []byte {
	return m.buf
}

// Len returns the size of the backing buffer.
func (m *Mem) Len() int {
	return len(m.buf)
}

// Read reads exactly len(dst) bytes starting at the current cursor.
func (m *Mem) Read(dst []byte, counter *Counter) error {
	if m.pos < 0 || m.pos+int64(len(dst)) > int64(len(m.buf)) {
		return ioErr("vio.Mem.Read", io.ErrUnexpectedEOF)
	}
	n := copy(dst, m.buf[m.pos:])
	m.pos += int64(n)
	counter.Add(n)
	return nil
}

// Write writes all of src starting at the current cursor, overwriting
// whatever bytes were already there.
func (m *Mem) Write(src []byte, counter *Counter) error {
	if m.pos < 0 || m.pos+int64(len(src)) > int64(len(m.buf)) {
		return ioErr("vio.Mem.Write", io.ErrShortBuffer)
	}
	n := copy(m.buf[m.pos:], src)
	m.pos += int64(n)
	counter.Add(n)
	return nil
}

// WriteRepeat writes pattern to the stream count times back-to-back.
func (m *Mem) WriteRepeat(pattern []byte, count int, counter *Counter) error {
	for i := 0; i < count; i++ {
		if err := m.Write(pattern, counter); err != nil {
			return err
		}
	}
	return nil
}

// Seek moves the cursor per whence and returns an error if the resulting
// position would be negative. Unlike io.Seeker, Mem does not allow seeking
// past the end of the buffer; callers that need to write past the current
// length must size the buffer up front.
func (m *Mem) Seek(offset int64, whence int) error {
	var abs int64
	switch whence {
	case SeekStart:
		abs = offset
	case SeekCurrent:
		abs = m.pos + offset
	case SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return ioErr("vio.Mem.Seek", errs.New(errs.KindIO, "vio.Mem.Seek", "invalid whence"))
	}
	if abs < 0 || abs > int64(len(m.buf)) {
		return ioErr("vio.Mem.Seek", io.ErrUnexpectedEOF)
	}
	m.pos = abs
	return nil
}

// Tell returns the current absolute cursor position.
func (m *Mem) Tell() (int64, error) {
	return m.pos, nil
}
