package lsdsav

// Physical on-disk layout, bit-exact, offsets from file start (spec §4.5).
const (
	workingSongOffset = 0x0000
	workingSongSize    = 0x8000

	nameTableOffset = 0x8000
	nameTableSize   = 0x100

	versionTableOffset = 0x8100
	versionTableSize   = 0x20

	headerPadOffset = 0x8120
	headerPadSize   = 0x1E

	magicOffset = 0x813E
	magicSize   = 0x02

	activeProjectOffset = 0x8140
	activeProjectSize   = 0x01

	reservedOffset = 0x8141
	reservedSize   = 0xBF

	allocTableOffset = 0x8200
	allocTableSize   = 191

	blockAreaOffset = 0x8400

	// FileSize is the canonical total size of a save file. A short device
	// dump MAY still parse if the header validates and the declared block
	// range is readable (spec §6).
	FileSize = blockAreaOffset + 191*512
)

// ProjectCount is the number of named project slots a save holds, in
// addition to the one working song.
const ProjectCount = 32

var magicBytes = [2]byte{'j', 'k'}
