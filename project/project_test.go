package project

import (
	"testing"

	"github.com/gbdev-tools/lsdsav/song"
)

func validSongBuf() []byte {
	buf := make([]byte, song.Size)
	return buf
}

func TestEmptyIsEmpty(t *testing.T) {
	p := Empty()
	if !p.IsEmpty() {
		t.Fatal("Empty() project must be empty")
	}
}

func TestEqualEmptyProjects(t *testing.T) {
	a := Empty()
	b := Empty()
	b.Version = 0
	if !a.Equal(b) {
		t.Fatal("two empty projects with matching name/version must be equal")
	}
}

func TestEqualDetectsImageDifference(t *testing.T) {
	img1, _ := song.New(validSongBuf())
	buf2 := validSongBuf()
	buf2[0] = 0x01
	img2, _ := song.New(buf2)

	a := Project{Name: [NameLength]byte{'A'}, Version: 1, Song: img1}
	b := Project{Name: [NameLength]byte{'A'}, Version: 1, Song: img2}
	if a.Equal(b) {
		t.Fatal("projects with differing song bytes must not be Equal")
	}
}

func TestEqualDetectsNameAndVersionDifference(t *testing.T) {
	img, _ := song.New(validSongBuf())
	a := Project{Name: [NameLength]byte{'A'}, Version: 1, Song: img}
	b := Project{Name: [NameLength]byte{'B'}, Version: 1, Song: img}
	if a.Equal(b) {
		t.Fatal("projects with differing names must not be Equal")
	}
	c := Project{Name: [NameLength]byte{'A'}, Version: 2, Song: img}
	if a.Equal(c) {
		t.Fatal("projects with differing versions must not be Equal")
	}
}
