package parser

import "fmt"

// ErrorKind identifies the reason a pattern failed to parse.
type ErrorKind uint8

const (
	// ErrInvalidEscape reports a backslash followed by a character that is
	// not a recognized metacharacter.
	ErrInvalidEscape ErrorKind = iota
	// ErrInvalidRightParen reports a `)` with no matching `(`.
	ErrInvalidRightParen
	// ErrNoPrev reports a postfix operator or `|` with no preceding operand.
	ErrNoPrev
	// ErrNoRightParen reports a `(` left unclosed at end of input.
	ErrNoRightParen
	// ErrEmpty reports a pattern with no content at all.
	ErrEmpty
)

// ParseError describes why and where a pattern failed to parse. Pos is the
// 0-based character offset at which the error was detected; Char is set
// only for ErrInvalidEscape.
type ParseError struct {
	Kind ErrorKind
	Pos  int
	Char rune
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrInvalidEscape:
		return fmt.Sprintf("invalid escape at pos %d: %q", e.Pos, e.Char)
	case ErrInvalidRightParen:
		return fmt.Sprintf("unmatched right parenthesis at pos %d", e.Pos)
	case ErrNoPrev:
		return fmt.Sprintf("no previous expression at pos %d", e.Pos)
	case ErrNoRightParen:
		return "missing right parenthesis"
	case ErrEmpty:
		return "empty expression"
	default:
		return fmt.Sprintf("parse error at pos %d", e.Pos)
	}
}
