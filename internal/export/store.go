// Package export writes extracted columns and status displays to SQLite.
package export

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/robert-malhotra/go-readmars/internal/dtype"
	"github.com/robert-malhotra/go-readmars/mars"
)

// ErrSchemaMismatch is returned when appending to a table whose columns differ
// from the columns being written.
var ErrSchemaMismatch = errors.New("table columns do not match")

// Mode selects what happens to an existing table.
type Mode int

const (
	Replace Mode = iota
	Append
)

// Store is a SQLite database holding exported tables.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the bookkeeping tables. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// column_types records element type and width of every exported column so
// BLOB columns can be decoded again.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS column_types (
  table_name   TEXT NOT NULL,
  column_name  TEXT NOT NULL,
  dtype        TEXT NOT NULL,
  width        INTEGER NOT NULL,
  PRIMARY KEY (table_name, column_name)
);
`

// quote returns name as a quoted SQL identifier.
func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// field is one output column of a table.
type field struct {
	name  string
	sql   string // SQL column type
	dtype string
	width int
	col   *mars.Column
	value any // constant value when col is nil
}

// WriteColumns writes cols as one table, one row per event, in a single
// transaction. Scalar columns become INTEGER or REAL columns, per-pixel
// columns BLOBs holding the little-endian row values. Every entry of
// constants is added as a column holding the same value in every row.
//
// All columns must have the same number of events.
func (s *Store) WriteColumns(table string, cols map[string]*mars.Column, constants map[string]any, mode Mode) (int, error) {
	fields, rows, err := buildFields(cols, constants)
	if err != nil {
		return 0, fmt.Errorf("table %s: %w", table, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := prepareTable(tx, table, fields, mode); err != nil {
		return 0, err
	}

	names := make([]string, len(fields))
	marks := make([]string, len(fields))
	for i, f := range fields {
		names[i] = quote(f.name)
		marks[i] = "?"
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(table), strings.Join(names, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return 0, fmt.Errorf("prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	args := make([]any, len(fields))
	for row := 0; row < rows; row++ {
		for i, f := range fields {
			if f.col == nil {
				args[i] = f.value
				continue
			}
			if args[i], err = cell(f.col, row); err != nil {
				return 0, fmt.Errorf("%s row %d: %w", f.name, row, err)
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return 0, fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return rows, nil
}

func buildFields(cols map[string]*mars.Column, constants map[string]any) ([]field, int, error) {
	if len(cols) == 0 {
		return nil, 0, errors.New("no columns")
	}
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := cols[names[0]].Len()
	fields := make([]field, 0, len(cols)+len(constants))
	for _, name := range names {
		c := cols[name]
		if c.Len() != rows {
			return nil, 0, fmt.Errorf("column %s has %d rows, %s has %d", name, c.Len(), names[0], rows)
		}
		d, err := dtype.Of(c.Data)
		if err != nil {
			return nil, 0, fmt.Errorf("column %s: %w", name, err)
		}
		if d != c.Type.Native() {
			return nil, 0, fmt.Errorf("column %s is declared %s but holds %s", name, c.Type, d)
		}
		if n := dtype.Len(c.Data); n != c.Len()*c.Width() {
			return nil, 0, fmt.Errorf("column %s holds %d values, shape %v needs %d", name, n, c.Shape, c.Len()*c.Width())
		}
		f := field{name: name, dtype: d.String(), width: c.Width(), col: c}
		switch {
		case c.IsVector():
			f.sql = "BLOB"
		case d.IsInteger() || d == dtype.Bool:
			f.sql = "INTEGER"
		default:
			f.sql = "REAL"
		}
		fields = append(fields, f)
	}

	constNames := make([]string, 0, len(constants))
	for name := range constants {
		if _, dup := cols[name]; dup {
			return nil, 0, fmt.Errorf("constant %s shadows a column", name)
		}
		constNames = append(constNames, name)
	}
	sort.Strings(constNames)
	for _, name := range constNames {
		f := field{name: name, width: 1, value: constants[name]}
		switch v := constants[name].(type) {
		case int:
			f.sql, f.dtype, f.value = "INTEGER", dtype.Int64.String(), int64(v)
		case int64:
			f.sql, f.dtype = "INTEGER", dtype.Int64.String()
		case float64:
			f.sql, f.dtype = "REAL", dtype.Float64.String()
		case string:
			f.sql, f.dtype = "TEXT", "string"
		case fmt.Stringer:
			f.sql, f.dtype, f.value = "TEXT", "string", v.String()
		default:
			return nil, 0, fmt.Errorf("constant %s: unsupported type %T", name, v)
		}
		fields = append(fields, f)
	}
	return fields, rows, nil
}

// prepareTable creates the table, dropping it first in Replace mode. In Append
// mode an existing table must have exactly the field names.
func prepareTable(tx *sql.Tx, table string, fields []field, mode Mode) error {
	if mode == Replace {
		if _, err := tx.Exec("DROP TABLE IF EXISTS " + quote(table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
		if _, err := tx.Exec("DELETE FROM column_types WHERE table_name = ?", table); err != nil {
			return fmt.Errorf("clear column types of %s: %w", table, err)
		}
	} else {
		existing, err := tableColumns(tx, table)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return checkColumns(table, existing, fields)
		}
	}

	defs := make([]string, len(fields))
	for i, f := range fields {
		defs[i] = quote(f.name) + " " + f.sql
	}
	if _, err := tx.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", quote(table), strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}
	for _, f := range fields {
		if _, err := tx.Exec(
			"INSERT INTO column_types (table_name, column_name, dtype, width) VALUES (?, ?, ?, ?)",
			table, f.name, f.dtype, f.width,
		); err != nil {
			return fmt.Errorf("record column type %s.%s: %w", table, f.name, err)
		}
	}
	return nil
}

func tableColumns(tx *sql.Tx, table string) (map[string]string, error) {
	rows, err := tx.Query("SELECT name, type FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]string)
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, fmt.Errorf("inspect %s: %w", table, err)
		}
		cols[name] = typ
	}
	return cols, rows.Err()
}

func checkColumns(table string, existing map[string]string, fields []field) error {
	if len(existing) != len(fields) {
		return fmt.Errorf("%s has %d columns, writing %d: %w", table, len(existing), len(fields), ErrSchemaMismatch)
	}
	for _, f := range fields {
		typ, ok := existing[f.name]
		if !ok {
			return fmt.Errorf("%s has no column %s: %w", table, f.name, ErrSchemaMismatch)
		}
		if typ != f.sql {
			return fmt.Errorf("%s.%s is %s, writing %s: %w", table, f.name, typ, f.sql, ErrSchemaMismatch)
		}
	}
	return nil
}

// cell returns the SQL value of one row of c.
func cell(c *mars.Column, row int) (any, error) {
	v, err := c.Row(row)
	if err != nil {
		return nil, err
	}
	if c.IsVector() {
		return binary.Append(nil, binary.LittleEndian, v)
	}
	switch s := v.(type) {
	case []int8:
		return int64(s[0]), nil
	case []uint8:
		return int64(s[0]), nil
	case []int16:
		return int64(s[0]), nil
	case []uint16:
		return int64(s[0]), nil
	case []int32:
		return int64(s[0]), nil
	case []uint32:
		return int64(s[0]), nil
	case []int64:
		return s[0], nil
	case []uint64:
		return int64(s[0]), nil
	case []float32:
		return float64(s[0]), nil
	case []float64:
		return s[0], nil
	case []bool:
		return s[0], nil
	default:
		return nil, fmt.Errorf("unsupported data %T", v)
	}
}

// ColumnType returns the element type and width recorded for a column written
// by WriteColumns.
func (s *Store) ColumnType(table, column string) (dtype.DType, int, error) {
	var (
		name  string
		width int
	)
	err := s.db.QueryRow(
		"SELECT dtype, width FROM column_types WHERE table_name = ? AND column_name = ?",
		table, column,
	).Scan(&name, &width)
	if errors.Is(err, sql.ErrNoRows) {
		return dtype.Unknown, 0, fmt.Errorf("no column %s.%s", table, column)
	}
	if err != nil {
		return dtype.Unknown, 0, fmt.Errorf("column type %s.%s: %w", table, column, err)
	}
	d, err := dtype.Parse(name)
	if err != nil {
		return dtype.Unknown, 0, fmt.Errorf("column %s.%s: %w", table, column, err)
	}
	return d, width, nil
}

// Decode decodes one BLOB cell of a per-pixel column of type d into a typed
// slice such as []float32.
func Decode(blob []byte, d dtype.DType) (any, error) {
	size := d.Size()
	if len(blob)%size != 0 {
		return nil, fmt.Errorf("blob of %d bytes is not a %s array", len(blob), d.Native())
	}
	out := reflect.MakeSlice(reflect.SliceOf(d.GoType()), len(blob)/size, len(blob)/size).Interface()
	if _, err := binary.Decode(blob, binary.LittleEndian, out); err != nil {
		return nil, err
	}
	return out, nil
}
