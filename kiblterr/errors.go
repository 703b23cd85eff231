// Package kiblterr defines the error taxonomy shared by the kmer-sync
// packages. It separates immediate-abort failures (I/O, malformed
// input, construction errors) from data-level outcomes that a caller
// is expected to branch on (peeling results).
package kiblterr

import "fmt"

// Code identifies the class of a kiblterr.Error.
type Code int

const (
	// CodeUnknown is the zero value; never returned by this package.
	CodeUnknown Code = iota
	// CodeInvalidParams means construction parameters (k, r, eps, n, seed)
	// were out of range or mutually inconsistent.
	CodeInvalidParams
	// CodeIncompatible means a subtract/merge was attempted between two
	// sketches built with different k, r, n, seed or bucket geometry.
	CodeIncompatible
	// CodeMalformedInput means a FASTA/FASTQ/raw record or a persisted
	// sketch file did not parse as the format it claimed to be.
	CodeMalformedInput
	// CodeIO wraps an underlying I/O failure (open, read, write, seek).
	CodeIO
	// CodeBadMagic means a sketch file's leading magic bytes did not match.
	CodeBadMagic
	// CodeVersionMismatch means a sketch file declared a format version
	// this build does not know how to read.
	CodeVersionMismatch
	// CodeExhausted means an operation was attempted on an IBLT that has
	// already reached a terminal peeled/exhausted state.
	CodeExhausted
	// CodeUnpeelable means list() could not find a peelable bucket but the
	// table is not provably empty; some residual entries could not be
	// recovered.
	CodeUnpeelable
	// CodeInfiniteLoop means the peeling loop exceeded its iteration
	// budget without reaching a terminal state.
	CodeInfiniteLoop
	// CodeAsymmetric means peeling left only buckets with a count of 2:
	// the size of the difference was recovered, but which side each of
	// the colliding keys belongs to could not be determined.
	CodeAsymmetric
)

func (c Code) String() string {
	switch c {
	case CodeInvalidParams:
		return "invalid_params"
	case CodeIncompatible:
		return "incompatible"
	case CodeMalformedInput:
		return "malformed_input"
	case CodeIO:
		return "io"
	case CodeBadMagic:
		return "bad_magic"
	case CodeVersionMismatch:
		return "version_mismatch"
	case CodeExhausted:
		return "exhausted"
	case CodeUnpeelable:
		return "unpeelable"
	case CodeInfiniteLoop:
		return "infinite_loop"
	case CodeAsymmetric:
		return "asymmetric"
	default:
		return "unknown"
	}
}

// Error is the sum-typed error this module returns. Immediate-abort
// conditions (IO, malformed input, bad construction) are meant to be
// returned and handled with errors.As in the normal Go fashion. The
// three peeling outcomes (Unpeelable, InfiniteLoop, Asymmetric) are
// data-level results of list(): a caller gets them back as a reported
// value alongside the partial recovery, not as a fatal error to abort
// on, though they still satisfy the error interface so they compose
// with the rest of the taxonomy.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kiblt: %s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("kiblt: %s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target shares this error's Code, so callers can
// write errors.Is(err, kiblterr.New(kiblterr.CodeUnpeelable, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New builds an Error with no wrapped cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap builds an Error around an underlying cause.
func Wrap(code Code, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// IsCode reports whether err is a *Error (directly or via wrapping)
// carrying the given code.
func IsCode(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
