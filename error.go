package mist

import (
	"fmt"

	"github.com/juju/errors"
)

// Kind classifies an Error by cause.
type Kind int

const (
	// KindUnspecified is used only as the zero value; no Error built by
	// this package should carry it.
	KindUnspecified Kind = iota

	// KindOutOfMemory reports an allocation failure. Go code essentially
	// never returns this explicitly (the runtime panics on real
	// exhaustion instead); it exists so the boundary error taxonomy of
	// the driver API stays complete.
	KindOutOfMemory

	// KindOpenFailed reports a file that could not be opened.
	KindOpenFailed
	// KindReadFailed reports a file that could not be read.
	KindReadFailed
	// KindWriteFailed reports a file that could not be written.
	KindWriteFailed
	// KindDirReadFailed reports a directory listing failure.
	KindDirReadFailed
	// KindSyntaxError reports a lexer/parser failure.
	KindSyntaxError
	// KindBadName reports an invalid template/attribute name.
	KindBadName
	// KindDuplicateParam reports a name collision where uniqueness is required.
	KindDuplicateParam
	// KindMissingParam reports a required parameter that was not supplied.
	KindMissingParam
	// KindNoTemplateFiles reports a template directory with no *.tpl files.
	KindNoTemplateFiles
	// KindLoadFailed reports a template that failed to build.
	KindLoadFailed
	// KindMainMultiValued reports a main template that evaluated to more
	// than one value where exactly one was required.
	KindMainMultiValued
	// KindCreateDirFailed reports a directory that could not be created.
	KindCreateDirFailed
	// KindNoMainTemplate reports a group whose requested main template
	// name does not exist among its sources.
	KindNoMainTemplate
)

func (k Kind) String() string {
	switch k {
	case KindOutOfMemory:
		return "OutOfMemory"
	case KindOpenFailed:
		return "OpenFailed"
	case KindReadFailed:
		return "ReadFailed"
	case KindWriteFailed:
		return "WriteFailed"
	case KindDirReadFailed:
		return "DirReadFailed"
	case KindSyntaxError:
		return "SyntaxError"
	case KindBadName:
		return "BadName"
	case KindDuplicateParam:
		return "DuplicateParam"
	case KindMissingParam:
		return "MissingParam"
	case KindNoTemplateFiles:
		return "NoTemplateFiles"
	case KindLoadFailed:
		return "LoadFailed"
	case KindMainMultiValued:
		return "MainMultiValued"
	case KindCreateDirFailed:
		return "CreateDirFailed"
	case KindNoMainTemplate:
		return "NoMainTemplate"
	default:
		return "Unspecified"
	}
}

// Error is the structured value every operation in this package reports
// on failure. It carries a Kind tag, a human-readable description, and,
// for syntax errors, a line number and the offending token.
type Error struct {
	Kind     Kind
	Template string
	Line     int
	Token    *Token
	Sender   string
	cause    error
}

// Error implements the error interface with a one-line, prefixed message
// suitable for printing at the CLI boundary.
func (e *Error) Error() string {
	s := fmt.Sprintf("[%s", e.Kind)
	if e.Sender != "" {
		s += " in " + e.Sender
	}
	if e.Template != "" {
		s += " (" + e.Template + ")"
	}
	if e.Line > 0 {
		s += fmt.Sprintf(" line %d", e.Line)
		if e.Token != nil {
			s += fmt.Sprintf(" near %q", e.Token.Val)
		}
	}
	s += "] "
	if e.cause != nil {
		s += e.cause.Error()
	}
	return s
}

// Cause implements the github.com/juju/errors Causer interface so that
// errors.Cause(err) unwraps to the original underlying error, and
// errors.Annotate/errors.Trace chains compose cleanly with this type.
func (e *Error) Cause() error {
	return e.cause
}

// NewError builds an *Error of the given Kind for use by collaborator
// packages (mconfig, mlayout, cmd/mistgen) that need to report boundary
// failures using the same taxonomy as the core engine.
func NewError(kind Kind, sender string, cause error) *Error {
	return newError(kind, sender, cause)
}

// NewErrorf is the formatted-message counterpart of NewError.
func NewErrorf(kind Kind, sender, format string, args ...any) *Error {
	return newErrorf(kind, sender, format, args...)
}

func newError(kind Kind, sender string, cause error) *Error {
	return &Error{Kind: kind, Sender: sender, cause: errors.Trace(cause)}
}

func newErrorf(kind Kind, sender, format string, args ...any) *Error {
	return newError(kind, sender, errors.Errorf(format, args...))
}

func syntaxErrorAt(sender string, line int, tok *Token, format string, args ...any) *Error {
	e := newErrorf(KindSyntaxError, sender, format, args...)
	e.Line = line
	e.Token = tok
	return e
}
