package readfiles

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a read or write was abandoned.
type ErrorKind string

const (
	// KindStructural: a required header or count is missing or not an integer.
	KindStructural ErrorKind = "structural"
	// KindLexical: a record does not split into the expected fields.
	KindLexical ErrorKind = "lexical"
	// KindCorrelation: a boundary condition names an edge the mesh does not have.
	KindCorrelation ErrorKind = "correlation"
	// KindResource: the file could not be opened, read, written or closed.
	KindResource ErrorKind = "resource"
)

// Sentinels, matched with errors.Is against any *ReaError of the same kind.
var (
	ErrStructural  = errors.New("structural error")
	ErrLexical     = errors.New("lexical error")
	ErrCorrelation = errors.New("correlation error")
	ErrResource    = errors.New("resource error")
)

var kindSentinel = map[ErrorKind]error{
	KindStructural:  ErrStructural,
	KindLexical:     ErrLexical,
	KindCorrelation: ErrCorrelation,
	KindResource:    ErrResource,
}

// ReaError locates a failure in a reafile. Line is 1-based, zero when the
// failure is not tied to a line.
type ReaError struct {
	Op      string // "read" or "write"
	Kind    ErrorKind
	Section string
	Line    int
	Path    string
	Err     error
}

func (e *ReaError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	if e.Section != "" {
		base += fmt.Sprintf(" in section [%s]", e.Section)
	}
	if e.Line > 0 {
		base += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *ReaError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ReaError) Is(target error) bool {
	if e == nil {
		return false
	}
	return kindSentinel[e.Kind] == target
}

// IsKind reports whether any error in err's chain is a *ReaError of that kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *ReaError
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}
