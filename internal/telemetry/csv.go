package telemetry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads every row of a telemetry CSV file. Extra columns are ignored.
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputMissing, path)
		}
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(path, f)
}

// ReadCSV parses telemetry rows from r. source names the input in errors.
func ReadCSV(source string, r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SchemaError{Source: source, Missing: append([]Field(nil), RequiredFields...)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	cols, err := resolveColumns(source, header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}
		if isBlank(rec) {
			continue
		}
		var row Row
		for _, f := range RequiredFields {
			i := cols[f]
			if i >= len(rec) {
				return nil, fmt.Errorf("%s line %d: missing value for %s", source, line, f)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid %s %q: %w", source, line, f, rec[i], err)
			}
			row.set(f, v)
		}
		rows = append(rows, row)
	}

	if err := Validate(source, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
