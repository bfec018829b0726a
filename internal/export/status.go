package export

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/robert-malhotra/go-readmars/mars"
)

// WriteStatus stores transformed status display values of one run, one row per
// key. Camera arrays are stored as content only, histograms with their edges.
// Values of other types are not stored; their keys are returned.
//
// Rows of the same night and run are replaced, so a run can be rewritten.
func (s *Store) WriteStatus(table string, night, run int, values map[string]any) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  night    INTEGER NOT NULL,
  run_id   INTEGER NOT NULL,
  key      TEXT NOT NULL,
  kind     TEXT NOT NULL,
  edges    BLOB,
  content  BLOB NOT NULL,
  PRIMARY KEY (night, run_id, key)
)`, quote(table))); err != nil {
		return nil, fmt.Errorf("create %s: %w", table, err)
	}
	if _, err := tx.Exec("DELETE FROM "+quote(table)+" WHERE night = ? AND run_id = ?", night, run); err != nil {
		return nil, fmt.Errorf("clear run %d_%03d: %w", night, run, err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stmt, err := tx.Prepare("INSERT INTO " + quote(table) +
		" (night, run_id, key, kind, edges, content) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	var skipped []string
	for _, key := range keys {
		var (
			kind           string
			edges, content []byte
		)
		switch v := values[key].(type) {
		case []float64:
			kind = mars.KindCamera.String()
			content, err = binary.Append(nil, binary.LittleEndian, v)
		case mars.Hist:
			kind = "hist"
			if edges, err = binary.Append(nil, binary.LittleEndian, v.BinEdges); err == nil {
				content, err = binary.Append(nil, binary.LittleEndian, v.Content)
			}
		default:
			skipped = append(skipped, key)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		if _, err := stmt.Exec(night, run, key, kind, edges, content); err != nil {
			return nil, fmt.Errorf("insert %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return skipped, nil
}

// Float64s decodes a little-endian float64 BLOB written by the store.
func Float64s(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("blob of %d bytes is not a float64 array", len(blob))
	}
	out := make([]float64, len(blob)/8)
	if _, err := binary.Decode(blob, binary.LittleEndian, out); err != nil {
		return nil, err
	}
	return out, nil
}
