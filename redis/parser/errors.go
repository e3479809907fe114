package parser

import (
	"errors"
	"strconv"
)

var (
	// ErrSyntax matches every *SyntaxError with errors.Is
	ErrSyntax = errors.New("syntax error")

	// ErrConversion matches every *ConversionError with errors.Is
	ErrConversion = errors.New("conversion error")

	// ErrLimitExceeded matches every *LimitError with errors.Is
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrMalformedNode is returned by the extractor when given a tree the grammar never produces
	ErrMalformedNode = errors.New("malformed parse node")

	// ErrUnknownRule is returned when asked to parse a rule that is not a top-level element
	ErrUnknownRule = errors.New("unknown rule")
)

// ErrorKind classifies a SyntaxError
type ErrorKind int

const (
	// ErrKindPrefix means the element does not start with the expected sigil
	ErrKindPrefix ErrorKind = iota + 1
	// ErrKindUnterminated means input ended early or a line lacks its CRLF
	ErrKindUnterminated
	// ErrKindLength means a declared length or count does not match the available bytes
	ErrKindLength
	// ErrKindNumber means a numeric field holds something other than an optional sign and digits
	ErrKindNumber
)

var errorKindNames = map[ErrorKind]string{
	ErrKindPrefix:       "malformed prefix",
	ErrKindUnterminated: "unterminated element",
	ErrKindLength:       "length mismatch",
	ErrKindNumber:       "invalid number",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// SyntaxError represents meeting unexpected byte during parse
type SyntaxError struct {
	Kind   ErrorKind
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return "ERR Protocol error: " + e.Kind.String() + ": " + e.Msg + " at offset " + strconv.Itoa(e.Offset)
}

// Is makes errors.Is(err, ErrSyntax) hold
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func syntaxError(kind ErrorKind, offset int, msg string) *SyntaxError {
	return &SyntaxError{
		Kind:   kind,
		Offset: offset,
		Msg:    msg,
	}
}

// ConversionError represents a well-formed integer literal that does not fit in 32 bits
type ConversionError struct {
	Literal string
	Err     error
}

func (e *ConversionError) Error() string {
	return "ERR value is not an integer or out of range: '" + e.Literal + "'"
}

// Is makes errors.Is(err, ErrConversion) hold
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// LimitInput is the LimitError.What of an input longer than Options.MaxInputLen
const LimitInput = "input length"

// LimitError represents a declared size beyond the configured bound, raised before any allocation.
// For LimitInput nothing is declared, Declared is left 0.
type LimitError struct {
	What     string
	Declared int
	Max      int
}

// MakeInputLimitError creates the LimitError of an input longer than max bytes
func MakeInputLimitError(max int) *LimitError {
	return &LimitError{
		What: LimitInput,
		Max:  max,
	}
}

func (e *LimitError) Error() string {
	if e.What == LimitInput {
		return "ERR input exceeds " + strconv.Itoa(e.Max) + " bytes"
	}
	return "ERR Protocol error: invalid " + e.What + " " + strconv.Itoa(e.Declared) +
		", max is " + strconv.Itoa(e.Max)
}

// Is makes errors.Is(err, ErrLimitExceeded) hold
func (e *LimitError) Is(target error) bool {
	return target == ErrLimitExceeded
}
