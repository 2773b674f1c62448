package lsdsav

import (
	"bytes"
	"testing"

	"github.com/gbdev-tools/lsdsav/block"
	"github.com/gbdev-tools/lsdsav/errs"
	"github.com/gbdev-tools/lsdsav/project"
	"github.com/gbdev-tools/lsdsav/song"
	"github.com/gbdev-tools/lsdsav/vio"
)

func compressibleImage() []byte {
	buf := make([]byte, song.Size)
	for i := 0; i < song.Size; i += 16 {
		copy(buf[i:i+16], block.DefaultWave[:])
	}
	return buf
}

func incompressibleImage() []byte {
	buf := make([]byte, song.Size)
	for i := range buf {
		buf[i] = byte(1 + i%3)
	}
	return buf
}

func buildSav(t *testing.T) *Sav {
	t.Helper()
	sav := New()
	workingBuf := make([]byte, song.Size)
	workingBuf[0] = 0xAB
	workingImg, err := song.New(workingBuf)
	if err != nil {
		t.Fatalf("song.New: %v", err)
	}
	sav.WorkingSong = workingImg
	sav.ActiveProjectIndex = 1

	img1, err := song.New(incompressibleImage())
	if err != nil {
		t.Fatalf("song.New: %v", err)
	}
	img2, err := song.New(compressibleImage())
	if err != nil {
		t.Fatalf("song.New: %v", err)
	}

	sav.Projects[0] = project.Project{Name: [project.NameLength]byte{'B', 'I', 'G'}, Version: 3, Song: img1}
	sav.Projects[1] = project.Project{Name: [project.NameLength]byte{'S', 'M', 'A', 'L', 'L'}, Version: 7, Song: img2}
	return sav
}

func TestWriteReadRoundTrip(t *testing.T) {
	sav := buildSav(t)

	buf := make([]byte, FileSize)
	w := vio.NewMem(buf)
	if err := Write(sav, w); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r := vio.NewMem(buf)
	got, err := Read(r)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.ReadDiagnostics) != 0 {
		t.Fatalf("ReadDiagnostics = %v, want none", got.ReadDiagnostics)
	}
	if got.ActiveProjectIndex != sav.ActiveProjectIndex {
		t.Fatalf("ActiveProjectIndex = %d, want %d", got.ActiveProjectIndex, sav.ActiveProjectIndex)
	}
	if !bytes.Equal(got.WorkingSong.Bytes(), sav.WorkingSong.Bytes()) {
		t.Fatalf("working song mismatch after round trip")
	}
	for i := range sav.Projects {
		if !got.Projects[i].Equal(sav.Projects[i]) {
			t.Fatalf("project slot %d mismatch after round trip", i)
		}
	}
}

func TestReadRejectsMissingMagic(t *testing.T) {
	sav := buildSav(t)
	buf := make([]byte, FileSize)
	w := vio.NewMem(buf)
	if err := Write(sav, w); err != nil {
		t.Fatalf("Write: %v", err)
	}
	buf[magicOffset] = 0x00

	r := vio.NewMem(buf)
	if _, err := Read(r); !errs.Is(err, errs.KindNotASave) {
		t.Fatalf("err = %v, want KindNotASave", err)
	}
}

func TestEmptySaveRoundTrip(t *testing.T) {
	sav := New()
	buf := make([]byte, FileSize)
	w := vio.NewMem(buf)
	if err := Write(sav, w); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r := vio.NewMem(buf)
	got, err := Read(r)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	for i, p := range got.Projects {
		if !p.IsEmpty() {
			t.Fatalf("project slot %d should be empty, got %+v", i, p)
		}
	}
}
