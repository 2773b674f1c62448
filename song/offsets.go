package song

// Bank 1 scalar offsets. These are exact: liblsdj's song.c names its
// reserved pad fields after their own absolute offset (reserved1030,
// reserved1fba, reserved2000, reserved3fb9, reserved3fbf, reserved3fc6,
// reserved5fe0, reserved7ff2), and every one of those checks out against
// the sequential read order in read_bank0/read_bank1 — e.g. reserved3fc6
// falls exactly 58 bytes before the 0x4000 bank boundary, and reserved3fbf
// falls exactly where the field-by-field count from reserved3fb9 predicts.
// Walking that same sequence pins the four scalars the song-image accessor
// surface (spec-level, not this package's own contract) actually names:
// tempo, transposition, the file-changed flag, and the soft-synth
// overwrite locks.
const (
	tempoOffset         = 0x3FB4
	transpositionOffset = 0x3FB5
	fileChangedOffset   = 0x3FC1
	synthOverwriteOffset = 0x3FC4 // 2 bytes, one bit per synth slot
)

// bookmarkCount is NOT recoverable from the retrieved source fragments
// (song.h, which would define it, was filtered out of the pack): bookmarks
// is only pinned at its END (0x1030, by reserved1030's self-documenting
// name), not its start. It uses the publicly documented default for the tracker's save format; see DESIGN.md's OPEN QUESTION
// entry for song offsets.
const (
	bookmarkCount = 16
	bookmarksEnd  = 0x1030
	bookmarksOffset = bookmarksEnd - bookmarkCount
)
