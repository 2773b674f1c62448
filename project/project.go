// Package project defines the project record (C4): a name, a version
// counter, and an owned song image, with a lifecycle independent of any
// save container. This is new relative to the teacher — mewkiz-flac has no
// analog for a named, optionally-empty slot value — so its shape instead
// follows the small owning-value-type pattern the teacher uses for
// meta.Block bodies (a plain struct, a constructor, and an equality helper
// used by the teacher's own round-trip tests in meta/meta_test.go).
package project

import (
	"bytes"

	"github.com/gbdev-tools/lsdsav/song"
)

// NameLength is the fixed size in bytes of a project's raw name.
const NameLength = 8

// Project is one named, versioned save slot. A Project with a nil Song is
// empty: no image has been allocated for it yet.
type Project struct {
	Name    [NameLength]byte
	Version uint8
	Song    *song.Image
}

// Empty returns a zero-valued, unpopulated project: zero name, zero
// version, no song image.
func Empty() Project {
	return Project{}
}

// IsEmpty reports whether p owns no song image.
func (p Project) IsEmpty() bool {
	return p.Song == nil
}

// Equal reports whether p and other have the same name, version, and
// (if both populated) byte-identical song images. Comparison and display
// of the raw name are a caller responsibility per spec's C4 contract; this
// only compares the raw bytes.
func (p Project) Equal(other Project) bool {
	if p.Name != other.Name || p.Version != other.Version {
		return false
	}
	if p.IsEmpty() != other.IsEmpty() {
		return false
	}
	if p.IsEmpty() {
		return true
	}
	return bytes.Equal(p.Song.Bytes(), other.Song.Bytes())
}
