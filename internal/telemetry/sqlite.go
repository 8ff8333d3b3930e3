package telemetry

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	_ "modernc.org/sqlite"
)

// DefaultTable is the table read when no table name is given.
const DefaultTable = "telemetry"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads every row of table from the SQLite database at path,
// ordered by rowid. Column names follow the same rules as CSV headers.
func LoadSQLite(path, table string) ([]Row, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputMissing, path)
		}
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return QueryRows(db, table)
}

// QueryRows reads telemetry rows from an open database handle.
func QueryRows(db *sql.DB, table string) ([]Row, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	source := "table " + table

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?`, table).Scan(&n); err != nil {
		return nil, fmt.Errorf("failed to look up table: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInputMissing, source)
	}

	rs, err := db.Query(fmt.Sprintf(`SELECT * FROM "%s" ORDER BY rowid`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", source, err)
	}
	defer rs.Close()

	header, err := rs.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	cols, err := resolveColumns(source, header)
	if err != nil {
		return nil, err
	}

	dest := make([]any, len(header))
	vals := make([]sql.NullFloat64, len(header))
	for i := range dest {
		if isRequiredColumn(cols, i) {
			dest[i] = &vals[i]
		} else {
			dest[i] = new(any)
		}
	}

	var rows []Row
	for rs.Next() {
		if err := rs.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(rows)+1, err)
		}
		var row Row
		for _, f := range RequiredFields {
			v := vals[cols[f]]
			if !v.Valid {
				return nil, fmt.Errorf("%s row %d: NULL %s", source, len(rows)+1, f)
			}
			row.set(f, v.Float64)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", source, err)
	}

	if err := Validate(source, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func isRequiredColumn(cols map[Field]int, i int) bool {
	for _, c := range cols {
		if c == i {
			return true
		}
	}
	return false
}
