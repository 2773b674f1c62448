package block

import (
	"bytes"

	"github.com/mewkiz/pkg/dbg"

	"github.com/gbdev-tools/lsdsav/errs"
	"github.com/gbdev-tools/lsdsav/vio"
)

// nextEncodeRecord picks the single record to emit at image[pos:], following
// the encoder's ordered greedy policy: dictionary stamps first, then the two
// self-escapes, then run-length, and only then a bare literal. It returns the
// record together with the number of source bytes it consumes.
func nextEncodeRecord(image []byte, pos int) (Record, int) {
	remaining := len(image) - pos

	if remaining >= 16 && bytes.Equal(image[pos:pos+16], DefaultWave[:]) {
		n := 0
		for n < maxOpcodeRunLength && pos+(n+1)*16 <= len(image) &&
			bytes.Equal(image[pos+n*16:pos+(n+1)*16], DefaultWave[:]) {
			n++
		}
		return Record{Kind: KindDefaultWave, Count: n}, n * 16
	}

	if remaining >= 16 && bytes.Equal(image[pos:pos+16], DefaultInstrument[:]) {
		n := 0
		for n < maxOpcodeRunLength && pos+(n+1)*16 <= len(image) &&
			bytes.Equal(image[pos+n*16:pos+(n+1)*16], DefaultInstrument[:]) {
			n++
		}
		return Record{Kind: KindDefaultInstrument, Count: n}, n * 16
	}

	switch image[pos] {
	case opRLE:
		return Record{Kind: KindLiteral, Value: opRLE}, 1
	case opSA:
		return Record{Kind: KindLiteral, Value: opSA}, 1
	}

	if remaining >= minRunLength &&
		image[pos+1] == image[pos] && image[pos+2] == image[pos] && image[pos+3] == image[pos] {
		v := image[pos]
		n := 0
		for n < maxOpcodeRunLength && pos+n < len(image) && image[pos+n] == v {
			n++
		}
		return Record{Kind: KindRLERun, Value: v, Count: n}, n
	}

	return Record{Kind: KindLiteral, Value: image[pos]}, 1
}

func emitRecord(w vio.Writer, rec Record, wc *vio.Counter) error {
	switch rec.Kind {
	case KindLiteral:
		if rec.Value == opRLE {
			return w.Write([]byte{opRLE, rleEscape}, wc)
		}
		if rec.Value == opSA {
			return w.Write([]byte{opSA, saEscape}, wc)
		}
		return w.Write([]byte{rec.Value}, wc)
	case KindRLERun:
		return w.Write([]byte{opRLE, rec.Value, byte(rec.Count)}, wc)
	case KindDefaultWave:
		return w.Write([]byte{opSA, saDefaultWave, byte(rec.Count)}, wc)
	case KindDefaultInstrument:
		return w.Write([]byte{opSA, saDefaultInstr, byte(rec.Count)}, wc)
	case KindJump:
		return w.Write([]byte{opSA, rec.Jump}, wc)
	case KindEnd:
		return w.Write([]byte{opSA, saEndOfStream}, wc)
	default:
		return errs.New(errs.KindIO, "block.emitRecord", "unknown record kind")
	}
}

func padBlock(w vio.Writer, n int, wc *vio.Counter) error {
	if n <= 0 {
		return nil
	}
	return w.WriteRepeat([]byte{0}, n, wc)
}

// rollback restores w's cursor to writeStart and zero-fills every block
// written into since, through the end of the last (partially filled) block,
// so a failed Encode call never leaves a partially-written project behind.
func rollback(w vio.Writer, writeStart int64, wc *vio.Counter) (int, error) {
	pos, err := w.Tell()
	if err != nil {
		return 0, err
	}
	n := pos - writeStart
	if rem := n % Size; rem != 0 {
		n += Size - rem
	}
	if err := w.Seek(writeStart, vio.SeekStart); err != nil {
		return 0, err
	}
	if n > 0 {
		if err := w.WriteRepeat([]byte{0}, int(n), wc); err != nil {
			return 0, err
		}
	}
	if err := w.Seek(writeStart, vio.SeekStart); err != nil {
		return 0, err
	}
	return 0, errs.New(errs.KindBlockBudgetExceeded, "block.Encode",
		"ran out of blocks before the image was fully compressed")
}

// Encode compresses a full ImageSize-byte song image into the block stream
// starting at the 1-based absolute block index blockOffset, using at most
// budget blocks. It returns the number of blocks consumed.
//
// On BlockBudgetExceeded, every block Encode wrote into is zeroed in full and
// the writer's cursor is restored to its entry position, so the caller can retry the
// project elsewhere (or fail the whole save) without cleaning up partial
// output itself.
func Encode(image []byte, w vio.Writer, blockOffset, budget int, writeCounter *vio.Counter) (int, error) {
	if len(image) != ImageSize {
		return 0, errs.New(errs.KindIO, "block.Encode", "image must be exactly 32768 bytes")
	}
	if blockOffset < 1 || blockOffset > Count {
		return 0, errs.New(errs.KindBadJump, "block.Encode", "block offset out of range [1, 191]")
	}
	if budget < 1 {
		return 0, errs.New(errs.KindBlockBudgetExceeded, "block.Encode", "zero block budget")
	}

	writeStart, err := w.Tell()
	if err != nil {
		return 0, err
	}

	currentBlock := blockOffset
	currentBlockSize := 0
	blocksUsed := 1

	pos := 0
	for pos < len(image) {
		rec, consumed := nextEncodeRecord(image, pos)
		recLen := rec.EncodedLen()

		// Reserve 2 bytes of headroom in every framing check: that headroom
		// is what guarantees a jump (or, at the very end, the terminator)
		// always fits in the block that was just filled.
		if currentBlockSize+recLen+2 > Size {
			if blocksUsed+1 > budget {
				return rollback(w, writeStart, writeCounter)
			}
			if err := emitRecord(w, Record{Kind: KindJump, Jump: byte(currentBlock + 1)}, writeCounter); err != nil {
				return 0, err
			}
			if err := padBlock(w, Size-currentBlockSize-2, writeCounter); err != nil {
				return 0, err
			}
			currentBlock++
			currentBlockSize = 0
			blocksUsed++
		}

		if err := emitRecord(w, rec, writeCounter); err != nil {
			return 0, err
		}
		currentBlockSize += recLen
		pos += consumed
	}

	if err := emitRecord(w, Record{Kind: KindEnd}, writeCounter); err != nil {
		return 0, err
	}
	if err := padBlock(w, Size-currentBlockSize-2, writeCounter); err != nil {
		return 0, err
	}

	dbg.Println("block.Encode: consumed", blocksUsed, "blocks starting at", blockOffset)
	return blocksUsed, nil
}
