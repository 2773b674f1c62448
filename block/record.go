package block

// RecordKind identifies the shape of a decoded record (design note: "a
// tagged-variant representation of records... makes the decoder a pure
// folding over an iterator of records and the encoder a greedy scanner
// producing the same iterator").
type RecordKind int

const (
	// KindLiteral is a single byte copied verbatim to output.
	KindLiteral RecordKind = iota
	// KindRLERun is a byte repeated N times (opcode 0xC0 V N).
	KindRLERun
	// KindDefaultWave stamps DefaultWave N times (opcode 0xE0 0xF0 N).
	KindDefaultWave
	// KindDefaultInstrument stamps DefaultInstrument N times (opcode 0xE0
	// 0xF1 N).
	KindDefaultInstrument
	// KindJump transfers control to another block (opcode 0xE0 B, B not one
	// of 0xE0, 0xF0, 0xF1, 0xFF).
	KindJump
	// KindEnd terminates the stream (opcode 0xE0 0xFF).
	KindEnd
)

// Record is one decoded unit of the block stream. Self-escaped literals
// (0xC0 0xC0 and 0xE0 0xE0) decode to KindLiteral records carrying the
// escaped byte, so callers never need to special-case escapes.
type Record struct {
	Kind  RecordKind
	Value byte // the literal byte, for KindLiteral; the repeated byte, for KindRLERun
	Count int  // repeat count, for KindRLERun/KindDefaultWave/KindDefaultInstrument
	Jump  byte // target block index (1-based), for KindJump
}

// EncodedLen returns the number of bytes Record occupies in the wire format,
// used by the encoder's block-framing check.
func (r Record) EncodedLen() int {
	switch r.Kind {
	case KindLiteral:
		if r.Value == opRLE || r.Value == opSA {
			// self-escape: 0xC0 0xC0 or 0xE0 0xE0.
			return 2
		}
		return 1
	case KindRLERun:
		return 3
	case KindDefaultWave, KindDefaultInstrument:
		return 3
	case KindJump, KindEnd:
		return 2
	default:
		return 0
	}
}
