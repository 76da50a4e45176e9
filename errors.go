package nzmap

import (
	"fmt"
	"strings"
)

// LoadError reports a missing or malformed input file. Load errors are
// fatal: the run aborts naming the offending file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("nzmap: loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError reports a population table whose header row does not carry
// the expected column names verbatim. It is distinct from LoadError so a
// renamed column fails loudly instead of silently producing nulls.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("nzmap: %s: missing columns: %s",
		e.Path, strings.Join(e.Missing, ", "))
}

// WriteError reports a failure serializing one output artifact. It is
// fatal for that artifact only; the pipeline keeps writing the rest.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("nzmap: writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
