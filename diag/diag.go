// Package diag defines the errors and advisory warnings produced while
// tokenizing and parsing JavaScript source.
package diag

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/example/esparse/token"
)

// Kind classifies a fatal error.
type Kind int

const (
	// LexError is a malformed literal, comment or character.
	LexError Kind = iota
	// SyntaxError is a grammar or early-error violation.
	SyntaxError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case SyntaxError:
		return "SyntaxError"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the single fatal error that stops a parse.
type Error struct {
	Kind     Kind
	Message  string
	Pos      int // code point offset
	Position token.Position
	File     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Position)
}

// New builds an error of the given kind.
func New(kind Kind, pos int, at token.Position, format string, args ...interface{}) *Error {
	return &Error{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Position: at,
	}
}

// Warning is a non-fatal advisory attached to a successful parse.
type Warning struct {
	Message  string
	Pos      int
	Position token.Position
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s (%s)", w.Message, w.Position)
}

// List collects warnings in source order of discovery.
type List []Warning

func (l *List) Add(pos int, at token.Position, format string, args ...interface{}) {
	*l = append(*l, Warning{Message: fmt.Sprintf(format, args...), Pos: pos, Position: at})
}

func (l List) Len() int { return len(l) }

// Err folds the warnings into one error, or nil when there are none.
func (l List) Err() error {
	var result *multierror.Error
	for _, w := range l {
		result = multierror.Append(result, w)
	}
	return result.ErrorOrNil()
}
