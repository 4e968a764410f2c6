package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ModelError indicates the model API call itself failed: network error,
// timeout, non-2xx status after retries, or an empty completion.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model call failed: %v", e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// ParseError indicates the model returned a payload that is not valid JSON
// even after code-fence stripping.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model payload is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError indicates well-formed JSON that is missing required fields.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("model payload missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Unusable reports whether err means the model result must be treated as
// absent, in which case reconciliation falls back to the default payload.
// All three extraction failure classes qualify.
func Unusable(err error) bool {
	var modelErr *ModelError
	var parseErr *ParseError
	var schemaErr *SchemaError
	return errors.As(err, &modelErr) || errors.As(err, &parseErr) || errors.As(err, &schemaErr)
}
