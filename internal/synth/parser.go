package synth

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecordSet holds the rows recovered from a model reply. Every row has
// exactly the fields in Schema, in that order. Dropped counts rows the
// model returned that were missing required fields — they are discarded
// rather than failing the batch (lossy tolerance).
type RecordSet struct {
	Schema  []string
	Rows    []map[string]any
	Dropped int
}

// ParseError means no valid rows could be recovered from a reply. The
// raw text is attached for debugging.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse model reply: %s", e.Reason)
}

// Parse extracts the first JSON array embedded in raw and validates
// each element against schema. Explanatory prose around the payload is
// ignored. Elements missing schema fields (or that are not objects)
// are dropped and counted; extra fields are projected away. Values keep
// their basic JSON typing, nothing is coerced.
func Parse(raw string, schema []string) (*RecordSet, error) {
	payload, ok := extractArray(raw)
	if !ok {
		return nil, &ParseError{Reason: "no JSON array found in reply", Raw: raw}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &elements); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("invalid JSON array: %v", err), Raw: raw}
	}

	rs := &RecordSet{Schema: schema}
	for _, elem := range elements {
		var obj map[string]any
		if err := json.Unmarshal(elem, &obj); err != nil {
			rs.Dropped++
			continue
		}
		row, ok := projectRow(obj, schema)
		if !ok {
			rs.Dropped++
			continue
		}
		rs.Rows = append(rs.Rows, row)
	}

	if len(rs.Rows) == 0 {
		return nil, &ParseError{Reason: "no valid rows in reply", Raw: raw}
	}
	return rs, nil
}

// projectRow returns a copy of obj containing exactly the schema
// fields, or false if any field is absent.
func projectRow(obj map[string]any, schema []string) (map[string]any, bool) {
	row := make(map[string]any, len(schema))
	for _, field := range schema {
		value, ok := obj[field]
		if !ok {
			return nil, false
		}
		row[field] = value
	}
	return row, true
}

// extractArray returns the first top-level JSON array in raw, after
// stripping markdown fences and model sentinel tokens.
func extractArray(raw string) (string, bool) {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.ReplaceAll(s, "<s>", "")
	s = strings.ReplaceAll(s, "</s>", "")

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
