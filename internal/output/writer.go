// Package output serializes parsed record sets to JSON, CSV or Parquet
// files and manages per-job output directories.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/williamsnieves/ai-tech-tutor/internal/synth"
)

// Format is the user-selected output file format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatCSV, FormatParquet:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format %q (supported: json, csv, parquet)", s)
}

// Ext returns the file extension for the format.
func (f Format) Ext() string { return string(f) }

// Artifact describes a file written by Write. Written once, never mutated.
type Artifact struct {
	Path   string
	Format Format
	Rows   int
}

// SchemaInferenceError means a Parquet column held values of
// irreconcilable types (e.g. string and object in the same column).
type SchemaInferenceError struct {
	Field string
	Kinds []string
}

func (e *SchemaInferenceError) Error() string {
	return fmt.Sprintf("cannot infer a single type for column %q: saw %s", e.Field, strings.Join(e.Kinds, ", "))
}

// Write serializes records to path in the given format. Existing
// content at path is overwritten, not merged.
func Write(records *synth.RecordSet, format Format, path string) (*Artifact, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var err error
	switch format {
	case FormatJSON:
		err = writeJSON(records, path)
	case FormatCSV:
		err = writeCSV(records, path)
	case FormatParquet:
		err = writeParquet(records, path)
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return &Artifact{Path: path, Format: format, Rows: len(records.Rows)}, nil
}

// writeJSON emits an array of objects with fields in schema order.
// encoding/json would sort map keys, so rows are assembled by hand.
func writeJSON(records *synth.RecordSet, path string) error {
	var b strings.Builder
	b.WriteString("[\n")
	for i, row := range records.Rows {
		b.WriteString("  {")
		for j, field := range records.Schema {
			name, _ := json.Marshal(field)
			value, err := json.Marshal(row[field])
			if err != nil {
				return fmt.Errorf("failed to encode field %q: %w", field, err)
			}
			if j > 0 {
				b.WriteString(", ")
			}
			b.Write(name)
			b.WriteString(": ")
			b.Write(value)
		}
		b.WriteString("}")
		if i < len(records.Rows)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]\n")

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeCSV(records *synth.RecordSet, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(records.Schema); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range records.Rows {
		line := make([]string, len(records.Schema))
		for i, field := range records.Schema {
			line[i] = formatCSVValue(row[field])
		}
		if err := writer.Write(line); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCSVValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func writeParquet(records *synth.RecordSet, path string) error {
	schema, err := inferParquetSchema(records)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[map[string]any](file, schema)
	if _, err := writer.Write(records.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// inferParquetSchema derives one leaf type per column from the observed
// values. Columns are optional so nulls are always representable; a
// column mixing kinds (or holding nested objects) cannot be mapped to a
// single leaf and fails with SchemaInferenceError.
func inferParquetSchema(records *synth.RecordSet) (*parquet.Schema, error) {
	group := parquet.Group{}
	for _, field := range records.Schema {
		kinds := map[string]bool{}
		for _, row := range records.Rows {
			if kind := jsonKind(row[field]); kind != "" {
				kinds[kind] = true
			}
		}

		if len(kinds) > 1 || kinds["object"] || kinds["array"] {
			seen := make([]string, 0, len(kinds))
			for kind := range kinds {
				seen = append(seen, kind)
			}
			sort.Strings(seen)
			return nil, &SchemaInferenceError{Field: field, Kinds: seen}
		}

		switch {
		case kinds["number"]:
			group[field] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		case kinds["bool"]:
			group[field] = parquet.Optional(parquet.Leaf(parquet.BooleanType))
		default:
			// Strings, and all-null columns.
			group[field] = parquet.Optional(parquet.String())
		}
	}
	return parquet.NewSchema("records", group), nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return ""
	case string:
		return "string"
	case float64, int, int64:
		return "number"
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
