package extract

import "fmt"

// Pass is one independent heuristic scan of a page. Scan returns candidate
// values only; the pipeline folds them into the record using Policy.
// Implementations must be deterministic and free of side effects.
type Pass interface {
	Name() string
	Policy() Policy
	Scan(doc Document) (Record, error)
}

// ParseError aborts an extraction run: a pass found its marker but the value
// next to it could not be parsed and the pass does not tolerate that.
type ParseError struct {
	Pass  string
	Field Field
	Line  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse %s from %q: %v", e.Pass, e.Field, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
