package block

import (
	"github.com/mewkiz/pkg/dbg"
	"github.com/mewkiz/pkg/readerutil"

	"github.com/gbdev-tools/lsdsav/errs"
	"github.com/gbdev-tools/lsdsav/vio"
)

// Decoder walks a block's opcode stream one record at a time.
type Decoder struct {
	r  vio.Reader
	rc *vio.Counter
}

// NewDecoder returns a Decoder reading opcodes from r.
func NewDecoder(r vio.Reader, readCounter *vio.Counter) *Decoder {
	return &Decoder{r: r, rc: readCounter}
}

func (d *Decoder) readByte() (byte, error) {
	b, err := readerutil.ReadByte(vio.AsIOReader(d.r, d.rc))
	if err != nil {
		return 0, errs.Wrap(errs.KindTruncatedInput, "block.Decoder.readByte", err)
	}
	return b, nil
}

// NextRecord decodes exactly one record from the current position,
// implementing the S0/S_RLE/S_SA state machine from the decoder contract.
func (d *Decoder) NextRecord() (Record, error) {
	b, err := d.readByte()
	if err != nil {
		return Record{}, err
	}

	switch b {
	case opRLE:
		return d.decodeRLE()
	case opSA:
		return d.decodeSA()
	default:
		return Record{Kind: KindLiteral, Value: b}, nil
	}
}

func (d *Decoder) decodeRLE() (Record, error) {
	v, err := d.readByte()
	if err != nil {
		return Record{}, err
	}
	if v == rleEscape {
		return Record{Kind: KindLiteral, Value: opRLE}, nil
	}
	n, err := d.readByte()
	if err != nil {
		return Record{}, err
	}
	return Record{Kind: KindRLERun, Value: v, Count: int(n)}, nil
}

func (d *Decoder) decodeSA() (Record, error) {
	x, err := d.readByte()
	if err != nil {
		return Record{}, err
	}
	switch x {
	case saEscape:
		return Record{Kind: KindLiteral, Value: opSA}, nil
	case saDefaultWave:
		n, err := d.readByte()
		if err != nil {
			return Record{}, err
		}
		return Record{Kind: KindDefaultWave, Count: int(n)}, nil
	case saDefaultInstr:
		n, err := d.readByte()
		if err != nil {
			return Record{}, err
		}
		return Record{Kind: KindDefaultInstrument, Count: int(n)}, nil
	case saEndOfStream:
		return Record{Kind: KindEnd}, nil
	default:
		return Record{Kind: KindJump, Jump: x}, nil
	}
}

// blockOutcome reports how a single physical block's scan ended: either it
// hit the end-of-stream marker, or it hit a block-jump to Jump.
type blockOutcome struct {
	ended bool
	jump  byte
}

// scanBlock appends decoded bytes to out until it hits KindJump or KindEnd,
// or until out exceeds ImageSize (left for the caller to report as
// OutputOverflow, since the record that pushed it over is still needed for
// well-formed block alignment).
func scanBlock(dec *Decoder, out []byte) ([]byte, blockOutcome, error) {
	for {
		rec, err := dec.NextRecord()
		if err != nil {
			return out, blockOutcome{}, err
		}
		switch rec.Kind {
		case KindLiteral:
			out = append(out, rec.Value)
		case KindRLERun:
			for i := 0; i < rec.Count; i++ {
				out = append(out, rec.Value)
			}
		case KindDefaultWave:
			for i := 0; i < rec.Count; i++ {
				out = append(out, DefaultWave[:]...)
			}
		case KindDefaultInstrument:
			for i := 0; i < rec.Count; i++ {
				out = append(out, DefaultInstrument[:]...)
			}
		case KindJump:
			return out, blockOutcome{jump: rec.Jump}, nil
		case KindEnd:
			return out, blockOutcome{ended: true}, nil
		}
		if len(out) > ImageSize {
			return out, blockOutcome{ended: true}, nil
		}
	}
}

// Decode decompresses the project chain starting at the block under the
// reader's current cursor, following jump opcodes when followBlockJumps is
// true (the normal case; false is for forensic single-block inspection).
// When following jumps it returns exactly ImageSize bytes on success; in
// single-block mode it returns whatever that one block decodes to, with no
// size check.
func Decode(r vio.Reader, firstBlockOffset int64, followBlockJumps bool, readCounter *vio.Counter) ([]byte, error) {
	out := make([]byte, 0, ImageSize)
	dec := NewDecoder(r, readCounter)
	visited := make(map[byte]bool)

	for {
		blockStart, err := r.Tell()
		if err != nil {
			return nil, err
		}

		var outcome blockOutcome
		out, outcome, err = scanBlock(dec, out)
		if err != nil {
			return nil, err
		}

		if len(out) > ImageSize {
			return nil, errs.New(errs.KindOutputOverflow, "block.Decode",
				"decompressed output exceeds 32768 bytes before end-of-stream")
		}

		// Realign to the end of the physical block just scanned, matching
		// liblsdj's move-to-next-block-alignment behavior: every block is
		// left fully consumed regardless of where its terminating opcode
		// sat inside it.
		if err := r.Seek(blockStart+Size, vio.SeekStart); err != nil {
			return nil, err
		}

		if outcome.ended {
			break
		}

		if !followBlockJumps {
			// Forensic single-block mode: stop after one block regardless
			// of whether it ended in a jump.
			break
		}

		target := outcome.jump
		if target < 1 || target > Count {
			return nil, errs.New(errs.KindBadJump, "block.Decode",
				"jump target out of range [1, 191]")
		}
		if visited[target] {
			return nil, errs.New(errs.KindBadJump, "block.Decode",
				"jump target revisits a block already in this chain")
		}
		visited[target] = true

		if err := r.Seek(firstBlockOffset+int64(target-1)*Size, vio.SeekStart); err != nil {
			return nil, err
		}
	}

	if followBlockJumps && len(out) != ImageSize {
		return nil, errs.New(errs.KindShortOutput, "block.Decode",
			"stream terminated before producing 32768 bytes")
	}
	dbg.Println("block.Decode: produced", len(out), "bytes")
	return out, nil
}
