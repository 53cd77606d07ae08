package brainfuck

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrUnmatchedLoop      = errors.New("unmatched loop")

	ErrNoInputLeft        = errors.New("no input left")
	ErrInfiniteLoop       = errors.New("infinite loop")
	ErrTapeBoundsExceeded = errors.New("tape bounds exceeded")
	ErrInvalidOutput      = errors.New("output is not valid UTF-8")
)

// ParseError reports the first malformed spot in a program's source.
// Position counts runes, not bytes, from zero.
type ParseError struct {
	Kind      error
	Position  int
	Character rune
}

func (e *ParseError) Error() string {
	if e.Kind == ErrUnknownInstruction {
		return fmt.Sprintf("%v %q at position [%d]", e.Kind, e.Character, e.Position)
	}
	return fmt.Sprintf("%v at position [%d]", e.Kind, e.Position)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// ExecuteError aborts a run. Err is one of the execution sentinels.
type ExecuteError struct {
	Err                  error
	InstructionsExecuted uint
	DataPointer          int
}

func (e *ExecuteError) Error() string {
	return fmt.Sprintf("%v after [%d] instructions (data pointer [%d])", e.Err, e.InstructionsExecuted, e.DataPointer)
}

func (e *ExecuteError) Unwrap() error {
	return e.Err
}

// ErrorKind names the sentinel behind err, or "" when err is nil or not
// one of ours.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownInstruction):
		return "UnknownInstruction"
	case errors.Is(err, ErrUnmatchedLoop):
		return "UnmatchedLoop"
	case errors.Is(err, ErrNoInputLeft):
		return "NoInputLeft"
	case errors.Is(err, ErrInfiniteLoop):
		return "InfiniteLoop"
	case errors.Is(err, ErrTapeBoundsExceeded):
		return "TapeBoundsExceeded"
	case errors.Is(err, ErrInvalidOutput):
		return "InvalidOutput"
	}
	return ""
}
