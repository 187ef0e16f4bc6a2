package steganon

import (
	"errors"
	"fmt"
)

// Kind classifies every error the engine returns.
type Kind int

const (
	// KindModeConflict: the call is not valid in the current session mode.
	KindModeConflict Kind = iota + 1
	// KindSeedMisuse: the seed chain was changed after use, was empty, or
	// was advanced past its end.
	KindSeedMisuse
	// KindCapacityExceeded: the payload does not fit the image or protocol.
	KindCapacityExceeded
	// KindInvalidSeed: the decoded length header is impossible. Almost
	// always a wrong seed or a lossy re-encoded image.
	KindInvalidSeed
	// KindUnsupportedImage: fewer than three channels, or no pixels.
	KindUnsupportedImage
	// KindTestMode: extraction on a session created in test mode.
	KindTestMode
	// KindEmptyData: hide was called with no bytes.
	KindEmptyData
)

func (k Kind) String() string {
	switch k {
	case KindModeConflict:
		return "mode conflict"
	case KindSeedMisuse:
		return "seed misuse"
	case KindCapacityExceeded:
		return "capacity exceeded"
	case KindInvalidSeed:
		return "invalid seed"
	case KindUnsupportedImage:
		return "unsupported image"
	case KindTestMode:
		return "test mode enabled"
	case KindEmptyData:
		return "empty data"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the only error type returned by a Session.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := "steganon: "
	if e.Op != "" {
		s += e.Op + ": "
	}
	if e.Msg != "" {
		s += e.Msg
	} else {
		s += e.Kind.String()
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrModeConflict     = &Error{Kind: KindModeConflict}
	ErrSeedMisuse       = &Error{Kind: KindSeedMisuse}
	ErrCapacityExceeded = &Error{Kind: KindCapacityExceeded}
	ErrInvalidSeed      = &Error{Kind: KindInvalidSeed}
	ErrUnsupportedImage = &Error{Kind: KindUnsupportedImage}
	ErrTestMode         = &Error{Kind: KindTestMode}
	ErrEmptyData        = &Error{Kind: KindEmptyData}
)

func newError(k Kind, op, format string, args ...any) *Error {
	return &Error{Kind: k, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
