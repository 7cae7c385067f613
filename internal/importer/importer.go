// Package importer reads question corpora from csv, json, yaml and xlsx files.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const DefaultLevel = "all"

var ErrUnsupportedFormat = errors.New("unsupported question file format")

// Row is one question to import. Answer may be empty.
type Row struct {
	Name     string `json:"name" yaml:"name"`
	Answer   string `json:"answer" yaml:"answer"`
	Category string `json:"category" yaml:"category"`
	Level    string `json:"level" yaml:"level"`
}

// Supported reports whether ext (with leading dot) can be parsed.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".csv", ".json", ".yaml", ".yml", ".xlsx":
		return true
	}
	return false
}

func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f, filepath.Ext(path))
}

// Parse decodes rows by file extension, drops rows without a name and fills
// the default level.
func Parse(r io.Reader, ext string) ([]Row, error) {
	var (
		rows []Row
		err  error
	)
	switch strings.ToLower(ext) {
	case ".csv":
		rows, err = ReadCSV(r)
	case ".json":
		rows, err = ReadJSON(r)
	case ".yaml", ".yml":
		rows, err = ReadYAML(r)
	case ".xlsx":
		rows, err = ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return clean(rows), nil
}

func clean(rows []Row) []Row {
	out := rows[:0]
	for _, r := range rows {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			continue
		}
		r.Answer = strings.TrimSpace(r.Answer)
		r.Category = strings.TrimSpace(r.Category)
		r.Level = strings.TrimSpace(r.Level)
		if r.Level == "" {
			r.Level = DefaultLevel
		}
		out = append(out, r)
	}
	return out
}

// fromRecords maps header-keyed records to rows. Header names are case-insensitive.
func fromRecords(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, nil
	}

	index := map[string]int{}
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("header row must contain a name column")
	}

	cell := func(rec []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, Row{
			Name:     cell(rec, "name"),
			Answer:   cell(rec, "answer"),
			Category: cell(rec, "category"),
			Level:    cell(rec, "level"),
		})
	}
	return rows, nil
}
