// Package song wraps the fixed-size decompressed song image (C2): a value
// type over exactly 32,768 opaque bytes plus typed accessors at documented
// offsets. The codec in package block never looks inside this buffer; song
// is the only package that assigns meaning to its byte ranges, and every
// accessor here is a pure byte operation with no hidden state, mirroring how
// the teacher's meta package exposes typed fields over an otherwise opaque
// metadata block body (see meta/streaminfo.go, meta/vorbiscomment.go).
package song

import (
	"bytes"

	"github.com/gbdev-tools/lsdsav/errs"
)

const (
	// Size is the size in bytes of a fully decompressed song image.
	Size = 32768

	// bankSize is the size of one of the four content banks the image is
	// conceptually divided into (see spec §3's bank-oriented layout).
	bankSize = Size / 4

	bank0 = 0 * bankSize
	bank1 = 1 * bankSize
	bank2 = 2 * bankSize
	bank3 = 3 * bankSize
)

// Magic offsets of the three "rb" stamps that MUST validate on read.
const (
	magicOffset0 = 0x1E78
	magicOffset1 = 0x3E80
	magicOffset2 = 0x7FF0
)

var magic = [2]byte{'r', 'b'}

// formatVersionOffset is the final byte of bank 3, per spec §3 ("format
// version byte at the final offset").
const formatVersionOffset = Size - 1

// Image is a value type over one decompressed song buffer.
type Image struct {
	buf [Size]byte
}

// New wraps buf, which MUST be exactly Size bytes, as an Image. This copies
// buf, so callers retain ownership of the slice they passed in.
func New(buf []byte) (*Image, error) {
	if len(buf) != Size {
		return nil, errs.New(errs.KindIO, "song.New", "song image must be exactly 32768 bytes")
	}
	img := &Image{}
	copy(img.buf[:], buf)
	return img, nil
}

// Bytes returns the image's backing buffer. Callers MUST NOT retain slices
// derived from it across a mutation through a setter.
func (img *Image) Bytes() []byte {
	return img.buf[:]
}

// ValidateMagic checks the three "rb" stamps (bank 0's at 0x1E78, bank 1's
// at 0x3E80, and the one just before the format version at 0x7FF0).
// Per spec's Open Question, the working-song image at save offset 0 is not
// consistently validated by the source; callers decide whether to call this
// for the working image (see lsdsav.Sav.ValidateWorkingSong).
func (img *Image) ValidateMagic() error {
	for _, off := range []int{magicOffset0, magicOffset1, magicOffset2} {
		if !bytes.Equal(img.buf[off:off+2], magic[:]) {
			return errs.New(errs.KindMagicCheckFailed, "song.Image.ValidateMagic", "missing \"rb\" magic bytes")
		}
	}
	return nil
}

// FormatVersion returns the song's format-version byte.
func (img *Image) FormatVersion() byte {
	return img.buf[formatVersionOffset]
}

// SetFormatVersion sets the song's format-version byte.
func (img *Image) SetFormatVersion(v byte) {
	img.buf[formatVersionOffset] = v
}
