package lexer

import "fmt"

// Category is one of the failure categories from spec §6.5. Every error
// raised anywhere in the pipeline (byte source through parser) carries
// exactly one of these.
type Category int

const (
	IO Category = iota + 1
	Encoding
	UnexpectedEnd
	Character
	Syntax
	LimitExceeded
	NameConflict
	Indentation
	Unsupported
	Signature
	Access
	ValueNotFound
	TypeMismatch
	Internal
)

func (c Category) String() string {
	switch c {
	case IO:
		return "IO"
	case Encoding:
		return "Encoding"
	case UnexpectedEnd:
		return "UnexpectedEnd"
	case Character:
		return "Character"
	case Syntax:
		return "Syntax"
	case LimitExceeded:
		return "LimitExceeded"
	case NameConflict:
		return "NameConflict"
	case Indentation:
		return "Indentation"
	case Unsupported:
		return "Unsupported"
	case Signature:
		return "Signature"
	case Access:
		return "Access"
	case ValueNotFound:
		return "ValueNotFound"
	case TypeMismatch:
		return "TypeMismatch"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// categoryPrecedence implements the ordering from spec §7:
// LimitExceeded > Character/Encoding > Unsupported > Indentation >
// UnexpectedEnd > Syntax. Categories not listed there (NameConflict,
// Signature, Access, ValueNotFound, TypeMismatch, IO, Internal) never
// compete with another category for the same input position, so they
// are not part of this table.
var categoryPrecedence = map[Category]int{
	LimitExceeded: 0,
	Character:     1,
	Encoding:      1,
	Unsupported:   2,
	Indentation:   3,
	UnexpectedEnd: 4,
	Syntax:        5,
}

// HigherPrecedence reports whether a should be reported in preference to b
// when both conditions apply to the same input, per the §7 ordering.
// Categories outside the table are treated as lower precedence than any
// listed category (they are not expected to race with one another).
func HigherPrecedence(a, b Category) bool {
	pa, aOk := categoryPrecedence[a]
	pb, bOk := categoryPrecedence[b]
	switch {
	case aOk && bOk:
		return pa < pb
	case aOk:
		return true
	default:
		return false
	}
}

// Error is the single error type produced anywhere in the ELCL pipeline:
// category, message, source location, and an optional path fragment (spec
// §6.5). It is a plain value so the fail channel is idiomatic Go: callers
// use errors.As to recover it from a wrapped error, never exceptions.
type Error struct {
	Category Category
	Message  string
	Location Location
	Path     string // optional name-path fragment; empty if not applicable
}

func (e Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: [%s] %s (%s)", e.Location, e.Category, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: [%s] %s", e.Location, e.Category, e.Message)
}

// Errorf builds an Error with a formatted message.
func Errorf(category Category, loc Location, format string, args ...any) Error {
	return Error{Category: category, Message: fmt.Sprintf(format, args...), Location: loc}
}

// WithPath returns a copy of e with Path set, used when an error needs to
// carry the name-path it occurred at (e.g. NameConflict, ValueNotFound).
func (e Error) WithPath(path string) Error {
	e.Path = path
	return e
}
