package block

import (
	"bytes"
	"testing"

	"github.com/gbdev-tools/lsdsav/errs"
	"github.com/gbdev-tools/lsdsav/vio"
)

func newBlockArea() []byte {
	return make([]byte, Count*Size)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	image := make([]byte, ImageSize)
	for i := range image {
		image[i] = byte((i * 37) % 251)
	}

	buf := newBlockArea()
	w := vio.NewMem(buf)
	var wc vio.Counter
	blocksUsed, err := Encode(image, w, 1, Count, &wc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if blocksUsed < 1 {
		t.Fatalf("blocksUsed = %d, want >= 1", blocksUsed)
	}

	r := vio.NewMem(buf)
	var rc vio.Counter
	out, err := Decode(r, 0, true, &rc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, image) {
		t.Fatalf("round trip mismatch")
	}
}

func TestEncodeDecodeRoundTripSelfEscapes(t *testing.T) {
	image := make([]byte, ImageSize)
	pattern := []byte{opRLE, 0x01, opSA, 0x02}
	for i := range image {
		image[i] = pattern[i%len(pattern)]
	}

	buf := newBlockArea()
	w := vio.NewMem(buf)
	var wc vio.Counter
	if _, err := Encode(image, w, 1, Count, &wc); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	r := vio.NewMem(buf)
	var rc vio.Counter
	out, err := Decode(r, 0, true, &rc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, image) {
		t.Fatalf("round trip mismatch for self-escaped bytes")
	}
}

func TestEncodeDecodeRoundTripDictionaryStamps(t *testing.T) {
	image := make([]byte, ImageSize)
	for i := 0; i < ImageSize; i += 16 {
		if (i/16)%2 == 0 {
			copy(image[i:i+16], DefaultWave[:])
		} else {
			copy(image[i:i+16], DefaultInstrument[:])
		}
	}

	buf := newBlockArea()
	w := vio.NewMem(buf)
	var wc vio.Counter
	blocksUsed, err := Encode(image, w, 1, Count, &wc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// The stamps alternate, so each 16-byte chunk is its own 3-byte record:
	// 2048 records at 170 per block (510 payload bytes) need 13 blocks.
	if blocksUsed != 13 {
		t.Fatalf("blocksUsed = %d, want 13 for an alternating-dictionary image", blocksUsed)
	}

	r := vio.NewMem(buf)
	var rc vio.Counter
	out, err := Decode(r, 0, true, &rc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, image) {
		t.Fatalf("round trip mismatch for dictionary-stamped image")
	}
}

func TestEncodeBlockBudgetExceededRollback(t *testing.T) {
	// Incompressible image: no run of 4, no dictionary matches, no
	// self-escapes, so every byte costs close to 1 literal byte and the
	// image needs far more than one block.
	image := make([]byte, ImageSize)
	for i := range image {
		image[i] = byte(1 + i%3)
	}

	buf := newBlockArea()
	for i := range buf {
		buf[i] = 0xFF // sentinel so a successful rollback-zero is observable
	}
	w := vio.NewMem(buf)
	var wc vio.Counter
	n, err := Encode(image, w, 1, 1, &wc)
	if err == nil {
		t.Fatalf("expected BlockBudgetExceeded, got blocksUsed=%d", n)
	}
	if !errs.Is(err, errs.KindBlockBudgetExceeded) {
		t.Fatalf("err = %v, want KindBlockBudgetExceeded", err)
	}
	for i, b := range buf[:Size] {
		if b != 0 {
			t.Fatalf("buf[%d] = %#x, want 0 after rollback", i, b)
		}
	}
	pos, _ := w.Tell()
	if pos != 0 {
		t.Fatalf("writer cursor after rollback = %d, want 0", pos)
	}
}

func TestDecodeRejectsJumpOutOfRange(t *testing.T) {
	buf := newBlockArea()
	buf[0], buf[1] = opSA, 0xF5 // jump target 245, beyond Count (191)
	r := vio.NewMem(buf)
	var rc vio.Counter
	if _, err := Decode(r, 0, true, &rc); !errs.Is(err, errs.KindBadJump) {
		t.Fatalf("err = %v, want KindBadJump", err)
	}
}

func TestDecodeRejectsJumpCycle(t *testing.T) {
	buf := newBlockArea()
	// Block 1 jumps to block 2, block 2 jumps back to block 1: a cycle.
	buf[0], buf[1] = opSA, 0x02
	buf[Size+0], buf[Size+1] = opSA, 0x01
	r := vio.NewMem(buf)
	var rc vio.Counter
	if _, err := Decode(r, 0, true, &rc); !errs.Is(err, errs.KindBadJump) {
		t.Fatalf("err = %v, want KindBadJump", err)
	}
}

func TestDecodeSingleBlockForensicMode(t *testing.T) {
	buf := newBlockArea()
	buf[0] = 0x11
	buf[1], buf[2] = opSA, 0x02 // jump to block 2, which we never populate

	r := vio.NewMem(buf)
	var rc vio.Counter
	out, err := Decode(r, 0, false, &rc)
	if err != nil {
		t.Fatalf("Decode (forensic): %v", err)
	}
	if len(out) == 0 || out[0] != 0x11 {
		t.Fatalf("out = %v, want to start with 0x11", out)
	}
}
