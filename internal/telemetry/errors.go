package telemetry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInputMissing reports that the row source does not exist.
	ErrInputMissing = errors.New("input source missing")

	// ErrSchemaInvalid reports a row source without the required columns or
	// without any rows.
	ErrSchemaInvalid = errors.New("input schema invalid")
)

// SchemaError describes why a row source failed validation.
type SchemaError struct {
	Source  string
	Missing []Field
	Empty   bool
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		names := make([]string, len(e.Missing))
		for i, f := range e.Missing {
			names[i] = string(f)
		}
		return fmt.Sprintf("%s: missing columns: %s", e.Source, strings.Join(names, ", "))
	}
	if e.Empty {
		return fmt.Sprintf("%s: no rows", e.Source)
	}
	return fmt.Sprintf("%s: invalid schema", e.Source)
}

// Unwrap lets errors.Is match ErrSchemaInvalid.
func (e *SchemaError) Unwrap() error { return ErrSchemaInvalid }

// Validate checks that rows is non-empty.
func Validate(source string, rows []Row) error {
	if len(rows) == 0 {
		return &SchemaError{Source: source, Empty: true}
	}
	return nil
}

// resolveColumns maps each required field to its column index in header.
func resolveColumns(source string, header []string) (map[Field]int, error) {
	idx := make(map[Field]int, len(RequiredFields))
	for i, h := range header {
		if f, ok := ParseField(h); ok {
			if _, dup := idx[f]; !dup {
				idx[f] = i
			}
		}
	}
	var missing []Field
	for _, f := range RequiredFields {
		if _, ok := idx[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing}
	}
	return idx, nil
}
