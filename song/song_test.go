package song

import (
	"testing"

	"github.com/gbdev-tools/lsdsav/errs"
)

func validBuf() []byte {
	buf := make([]byte, Size)
	copy(buf[magicOffset0:], magic[:])
	copy(buf[magicOffset1:], magic[:])
	copy(buf[magicOffset2:], magic[:])
	return buf
}

func TestNewRejectsWrongSize(t *testing.T) {
	if _, err := New(make([]byte, Size-1)); err == nil {
		t.Fatal("expected an error for a short buffer")
	}
}

func TestValidateMagic(t *testing.T) {
	img, err := New(validBuf())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := img.ValidateMagic(); err != nil {
		t.Fatalf("ValidateMagic on a valid image: %v", err)
	}

	buf := validBuf()
	buf[magicOffset1] = 0x00
	img2, _ := New(buf)
	if err := img2.ValidateMagic(); !errs.Is(err, errs.KindMagicCheckFailed) {
		t.Fatalf("err = %v, want KindMagicCheckFailed", err)
	}
}

func TestFormatVersionRoundTrip(t *testing.T) {
	img, _ := New(validBuf())
	img.SetFormatVersion(8)
	if got := img.FormatVersion(); got != 8 {
		t.Fatalf("FormatVersion() = %d, want 8", got)
	}
	if img.buf[Size-1] != 8 {
		t.Fatalf("format version not at the final offset")
	}
}

func TestTempoAndTranspositionRoundTrip(t *testing.T) {
	img, _ := New(validBuf())
	img.SetTempo(140)
	img.SetTransposition(3)
	if img.Tempo() != 140 {
		t.Fatalf("Tempo() = %d, want 140", img.Tempo())
	}
	if img.Transposition() != 3 {
		t.Fatalf("Transposition() = %d, want 3", img.Transposition())
	}
}

func TestFileChangedFlagRoundTrip(t *testing.T) {
	img, _ := New(validBuf())
	if img.FileChangedFlag() {
		t.Fatal("expected FileChangedFlag to default false")
	}
	img.SetFileChangedFlag(true)
	if !img.FileChangedFlag() {
		t.Fatal("expected FileChangedFlag to be true after Set")
	}
}

func TestSynthOverwriteBitmapRoundTrip(t *testing.T) {
	img, _ := New(validBuf())
	img.SetSynthOverwritten(0, true)
	img.SetSynthOverwritten(9, true)
	for i := 0; i < synthCount; i++ {
		want := i == 0 || i == 9
		if got := img.SynthOverwritten(i); got != want {
			t.Fatalf("SynthOverwritten(%d) = %v, want %v", i, got, want)
		}
	}
	bm := img.synthOverwriteBitmap()
	if !bm[0] || !bm[9] {
		t.Fatalf("synthOverwriteBitmap() = %v, want bits 0 and 9 set", bm)
	}
}

func TestBookmarksRoundTrip(t *testing.T) {
	img, _ := New(validBuf())
	img.SetBookmark(2, 0x7F)
	got := img.Bookmarks()
	if len(got) != bookmarkCount {
		t.Fatalf("len(Bookmarks()) = %d, want %d", len(got), bookmarkCount)
	}
	if got[2] != 0x7F {
		t.Fatalf("Bookmarks()[2] = %#x, want 0x7F", got[2])
	}
}
