// Package export writes record batches to JSON or CSV files for downstream
// tools. Records are flat string mappings; the JSON form is an array of
// objects with 2-space indentation, the CSV form is a header row followed by
// one row per record, both UTF-8.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ToJSON writes the records as an indented JSON array of objects,
// overwriting any existing file. Parent directories are created.
func ToJSON(records []map[string]string, path string) error {
	if records == nil {
		records = []map[string]string{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ToCSV writes the records with a header row covering every key seen across
// the batch; records missing a column get an empty cell.
func ToCSV(records []map[string]string, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := Columns(records)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(header))
	for _, rec := range records {
		for i, col := range header {
			row[i] = rec[col]
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// Columns returns the union of keys across the records. "text" sorts first
// when present since it is the primary extraction column; the rest are
// alphabetical so output is deterministic.
func Columns(records []map[string]string) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		if cols[i] == "text" {
			return true
		}
		if cols[j] == "text" {
			return false
		}
		return cols[i] < cols[j]
	})
	return cols
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
