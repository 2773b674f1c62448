/*
Links:
	https://github.com/stijnfrishert/liblsdj
	https://www.littlesounddj.com/lsd/
*/

// Package lsdsav provides access to save files produced by a chiptune
// tracker: a working song image plus up to 32 additional named, compressed
// projects, laid out as a header, a block-allocation table, and a sequence
// of 512-byte blocks (see package block for the compression codec this
// container drives).
package lsdsav

import (
	"bytes"

	"github.com/mewkiz/pkg/dbg"

	"github.com/gbdev-tools/lsdsav/block"
	"github.com/gbdev-tools/lsdsav/errs"
	"github.com/gbdev-tools/lsdsav/project"
	"github.com/gbdev-tools/lsdsav/song"
	"github.com/gbdev-tools/lsdsav/vio"
)

// State tracks a Sav's position in the {Empty, Loaded, Dirty} lifecycle
// (spec §4.5). All three states may be written; the distinction exists so
// callers and diagnostics can tell an unmodified load from one with pending
// local edits.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateDirty
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateDirty:
		return "dirty"
	default:
		return "unknown"
	}
}

// ProjectReadError records a per-slot decode failure encountered while
// reading a save. Read continues past these: a corrupt project does
// not prevent the rest of the save from loading.
type ProjectReadError struct {
	Slot int
	Err  error
}

// Sav is a parsed (or freshly-created) save file: a working song plus up to
// ProjectCount named project slots.
type Sav struct {
	WorkingSong        *song.Image
	ActiveProjectIndex uint8
	Projects           [ProjectCount]project.Project

	// ReadDiagnostics lists any per-project decode failures encountered
	// while reading, per spec §7's propagation policy: multi-project reads
	// continue past individual errors and return a partial save.
	ReadDiagnostics []ProjectReadError

	state State
}

// New returns an empty save: a zeroed working song and no populated
// projects.
func New() *Sav {
	img, _ := song.New(make([]byte, song.Size))
	return &Sav{WorkingSong: img, state: StateEmpty}
}

// State reports the save's current lifecycle state.
func (s *Sav) State() State { return s.state }

// MarkDirty transitions a Loaded save to Dirty. Calling it on an Empty or
// already-Dirty save is a no-op.
func (s *Sav) MarkDirty() {
	if s.state == StateLoaded {
		s.state = StateDirty
	}
}

// Open opens the save file at path and parses it.
func Open(path string) (*Sav, error) {
	f, err := vio.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses a save from r, which MUST support read and seek.
func Read(r vio.Reader) (*Sav, error) {
	if err := checkMagic(r); err != nil {
		return nil, err
	}

	sav := &Sav{state: StateLoaded}

	names, versions, active, err := readHeaderFields(r)
	if err != nil {
		return nil, err
	}
	sav.ActiveProjectIndex = active

	allocTable, err := readAllocationTable(r)
	if err != nil {
		return nil, err
	}

	blockArea, err := readBlockArea(r)
	if err != nil {
		return nil, err
	}
	blockSrc := vio.NewMem(blockArea)

	for slot := 0; slot < ProjectCount; slot++ {
		head := firstBlockOf(allocTable, slot)
		if head == 0 {
			sav.Projects[slot] = project.Empty()
			continue
		}

		if err := blockSrc.Seek(int64(head-1)*block.Size, vio.SeekStart); err != nil {
			sav.ReadDiagnostics = append(sav.ReadDiagnostics, ProjectReadError{Slot: slot, Err: err})
			continue
		}
		var rc vio.Counter
		buf, err := block.Decode(blockSrc, 0, true, &rc)
		if err != nil {
			sav.ReadDiagnostics = append(sav.ReadDiagnostics, ProjectReadError{Slot: slot, Err: err})
			sav.Projects[slot] = project.Empty()
			continue
		}
		img, err := song.New(buf)
		if err != nil {
			sav.ReadDiagnostics = append(sav.ReadDiagnostics, ProjectReadError{Slot: slot, Err: err})
			sav.Projects[slot] = project.Empty()
			continue
		}
		sav.Projects[slot] = project.Project{Name: names[slot], Version: versions[slot], Song: img}
	}

	workingBuf, err := readWorkingSong(r)
	if err != nil {
		return nil, err
	}
	workingImg, err := song.New(workingBuf)
	if err != nil {
		return nil, err
	}
	sav.WorkingSong = workingImg

	dbg.Println("lsdsav.Read: loaded", countPopulated(sav), "of", ProjectCount, "project slots,",
		len(sav.ReadDiagnostics), "diagnostic(s)")
	return sav, nil
}

func countPopulated(sav *Sav) int {
	n := 0
	for _, p := range sav.Projects {
		if !p.IsEmpty() {
			n++
		}
	}
	return n
}

func checkMagic(r vio.Reader) error {
	if err := r.Seek(magicOffset, vio.SeekStart); err != nil {
		return err
	}
	got := make([]byte, magicSize)
	var rc vio.Counter
	if err := r.Read(got, &rc); err != nil {
		return errs.Wrap(errs.KindNotASave, "lsdsav.Read", err)
	}
	if !bytes.Equal(got, magicBytes[:]) {
		return errs.New(errs.KindNotASave, "lsdsav.Read", `missing "jk" magic at 0x813E`)
	}
	return nil
}

func readHeaderFields(r vio.Reader) (names [ProjectCount][project.NameLength]byte, versions [ProjectCount]uint8, active uint8, err error) {
	var rc vio.Counter

	if err = r.Seek(nameTableOffset, vio.SeekStart); err != nil {
		return
	}
	for i := 0; i < ProjectCount; i++ {
		if err = r.Read(names[i][:], &rc); err != nil {
			err = errs.Wrap(errs.KindIO, "lsdsav.readHeaderFields", err)
			return
		}
	}

	if err = r.Seek(versionTableOffset, vio.SeekStart); err != nil {
		return
	}
	raw := make([]byte, ProjectCount)
	if err = r.Read(raw, &rc); err != nil {
		err = errs.Wrap(errs.KindIO, "lsdsav.readHeaderFields", err)
		return
	}
	for i := range versions {
		versions[i] = raw[i]
	}

	if err = r.Seek(activeProjectOffset, vio.SeekStart); err != nil {
		return
	}
	one := make([]byte, 1)
	if err = r.Read(one, &rc); err != nil {
		err = errs.Wrap(errs.KindIO, "lsdsav.readHeaderFields", err)
		return
	}
	active = one[0]
	return
}

func readAllocationTable(r vio.Reader) ([allocTableSize]byte, error) {
	var table [allocTableSize]byte
	if err := r.Seek(allocTableOffset, vio.SeekStart); err != nil {
		return table, err
	}
	var rc vio.Counter
	if err := r.Read(table[:], &rc); err != nil {
		return table, errs.Wrap(errs.KindIO, "lsdsav.readAllocationTable", err)
	}
	return table, nil
}

func readBlockArea(r vio.Reader) ([]byte, error) {
	if err := r.Seek(blockAreaOffset, vio.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, block.Count*block.Size)
	var rc vio.Counter
	if err := r.Read(buf, &rc); err != nil {
		return nil, errs.Wrap(errs.KindIO, "lsdsav.readBlockArea", err)
	}
	return buf, nil
}

func readWorkingSong(r vio.Reader) ([]byte, error) {
	if err := r.Seek(workingSongOffset, vio.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, workingSongSize)
	var rc vio.Counter
	if err := r.Read(buf, &rc); err != nil {
		return nil, errs.Wrap(errs.KindIO, "lsdsav.readWorkingSong", err)
	}
	return buf, nil
}

// firstBlockOf returns the 1-based index of the lowest-numbered block owned
// by slot in table, or 0 if slot owns no block.
func firstBlockOf(table [allocTableSize]byte, slot int) int {
	for i, owner := range table {
		if int(owner) == slot {
			return i + 1
		}
	}
	return 0
}

// Write serialises sav to w in full: working song, header, allocation
// table, and block area, per spec §4.5's write algorithm. On
// BlockBudgetExceeded for any project it aborts the whole save with
// SaveOverflow; no partial output reaches w.
func Write(sav *Sav, w vio.Writer) error {
	allocTable := [allocTableSize]byte{}
	for i := range allocTable {
		allocTable[i] = 0xFF
	}

	blockArea := make([]byte, block.Count*block.Size)
	blockSink := vio.NewMem(blockArea)
	var wc vio.Counter

	nextFree := 1
	for slot := 0; slot < ProjectCount; slot++ {
		p := sav.Projects[slot]
		if p.IsEmpty() {
			continue
		}
		budget := block.Count - nextFree + 1
		if err := blockSink.Seek(int64(nextFree-1)*block.Size, vio.SeekStart); err != nil {
			return err
		}
		used, err := block.Encode(p.Song.Bytes(), blockSink, nextFree, budget, &wc)
		if err != nil {
			return errs.Wrap(errs.KindSaveOverflow, "lsdsav.Write", err)
		}
		for i := 0; i < used; i++ {
			allocTable[nextFree-1+i] = byte(slot)
		}
		nextFree += used
	}

	if err := w.Seek(workingSongOffset, vio.SeekStart); err != nil {
		return err
	}
	if err := w.Write(sav.WorkingSong.Bytes(), &wc); err != nil {
		return err
	}

	if err := writeHeader(sav, w, &wc); err != nil {
		return err
	}

	if err := w.Seek(allocTableOffset, vio.SeekStart); err != nil {
		return err
	}
	if err := w.Write(allocTable[:], &wc); err != nil {
		return err
	}

	if err := w.Seek(blockAreaOffset, vio.SeekStart); err != nil {
		return err
	}
	if err := w.Write(blockArea, &wc); err != nil {
		return err
	}

	return nil
}

func writeHeader(sav *Sav, w vio.Writer, wc *vio.Counter) error {
	if err := w.Seek(nameTableOffset, vio.SeekStart); err != nil {
		return err
	}
	for _, p := range sav.Projects {
		if err := w.Write(p.Name[:], wc); err != nil {
			return err
		}
	}

	if err := w.Seek(versionTableOffset, vio.SeekStart); err != nil {
		return err
	}
	versions := make([]byte, ProjectCount)
	for i, p := range sav.Projects {
		versions[i] = p.Version
	}
	if err := w.Write(versions, wc); err != nil {
		return err
	}

	if err := w.Seek(headerPadOffset, vio.SeekStart); err != nil {
		return err
	}
	if err := w.WriteRepeat([]byte{0}, headerPadSize, wc); err != nil {
		return err
	}

	if err := w.Seek(magicOffset, vio.SeekStart); err != nil {
		return err
	}
	if err := w.Write(magicBytes[:], wc); err != nil {
		return err
	}

	if err := w.Seek(activeProjectOffset, vio.SeekStart); err != nil {
		return err
	}
	if err := w.Write([]byte{sav.ActiveProjectIndex}, wc); err != nil {
		return err
	}

	if err := w.Seek(reservedOffset, vio.SeekStart); err != nil {
		return err
	}
	return w.WriteRepeat([]byte{0}, reservedSize, wc)
}

// ValidateWorkingSong validates the "rb" magic stamps inside the working
// song image. Per spec's Open Question, the source does not consistently
// enforce this for the working image; callers opt in explicitly.
func (s *Sav) ValidateWorkingSong() error {
	return s.WorkingSong.ValidateMagic()
}
