package song

import (
	"bytes"

	"github.com/icza/bitio"
)

// Tempo returns the song's tempo accessor (beats per minute, raw byte).
func (img *Image) Tempo() byte { return img.buf[tempoOffset] }

// SetTempo sets the song's tempo.
func (img *Image) SetTempo(v byte) { img.buf[tempoOffset] = v }

// Transposition returns the song's global transposition.
func (img *Image) Transposition() byte { return img.buf[transpositionOffset] }

// SetTransposition sets the song's global transposition.
func (img *Image) SetTransposition(v byte) { img.buf[transpositionOffset] = v }

// FileChangedFlag reports whether the tracker has marked the song dirty
// since it was last saved on-device.
func (img *Image) FileChangedFlag() bool { return img.buf[fileChangedOffset] != 0 }

// SetFileChangedFlag sets the file-changed flag.
func (img *Image) SetFileChangedFlag(changed bool) {
	if changed {
		img.buf[fileChangedOffset] = 1
	} else {
		img.buf[fileChangedOffset] = 0
	}
}

// synthCount is the number of soft-synth slots whose overwrite state is
// packed into the 2-byte bitmap at synthOverwriteOffset. liblsdj's
// read_bank1 indexes it as waveSynthOverwriteLocks[1-(i/8)], i.e. 16 slots
// across 2 bytes, high byte first.
const synthCount = 16

// SynthOverwritten reports whether soft-synth slot i has been locked
// against automatic wave-table overwrites by the tracker.
func (img *Image) SynthOverwritten(i int) bool {
	byteIdx := synthOverwriteOffset + (1 - i/8)
	bit := uint(i % 8)
	return (img.buf[byteIdx]>>bit)&1 == 1
}

// SetSynthOverwritten sets or clears the overwrite lock for soft-synth slot i.
func (img *Image) SetSynthOverwritten(i int, locked bool) {
	byteIdx := synthOverwriteOffset + (1 - i/8)
	bit := uint(i % 8)
	if locked {
		img.buf[byteIdx] |= 1 << bit
	} else {
		img.buf[byteIdx] &^= 1 << bit
	}
}

// synthOverwriteBitmap decodes the whole 2-byte region into a [16]bool using
// bitio, for callers that want the full lock set in one call rather than
// probing bit-by-bit.
func (img *Image) synthOverwriteBitmap() [synthCount]bool {
	var out [synthCount]bool
	r := bitio.NewReader(bytes.NewReader(img.buf[synthOverwriteOffset : synthOverwriteOffset+2]))
	raw := make([]bool, 16)
	// Bits arrive MSB-first from the high byte, so reading into raw[15]
	// down to raw[0] already lands each bit on its slot index.
	for i := 15; i >= 0; i-- {
		bit, err := r.ReadBool()
		if err != nil {
			break
		}
		raw[i] = bit
	}
	for i := 0; i < synthCount; i++ {
		out[i] = raw[i]
	}
	return out
}

// Bookmarks returns the raw bookmark table: one byte per bookmark slot,
// naming the block-relative row the tracker jumps to when that bookmark is
// recalled. See DESIGN.md for the offset's grounding and its one assumed
// constant (bookmarkCount).
func (img *Image) Bookmarks() []byte {
	return img.buf[bookmarksOffset : bookmarksOffset+bookmarkCount]
}

// SetBookmark sets bookmark slot i's raw value.
func (img *Image) SetBookmark(i int, v byte) {
	img.buf[bookmarksOffset+i] = v
}
