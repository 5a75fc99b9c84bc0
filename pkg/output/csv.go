package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/censys-research/censys-search-go/pkg/search"
)

// Flatten expands nested objects into dotted field paths, e.g. {"parsed": {"names": [..]}} becomes
// {"parsed.names": [..]}. Lists are left as values; an empty object is kept as a value.
func Flatten(rec map[string]any) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", rec)
	return out
}

func flattenInto(out map[string]any, pfx string, m map[string]any) {
	for k, v := range m {
		key := k
		if pfx != "" {
			key = pfx + "." + k
		}

		if sub, ok := v.(map[string]any); ok && len(sub) > 0 {
			flattenInto(out, key, sub)
			continue
		}
		out[key] = v
	}
}

// Columns returns the csv header for a set of flattened records: the requested fields first, then
// every other field path in the order it was first seen.
func Columns(rows []map[string]any, fields []string) []string {
	cols := make([]string, 0, len(fields))
	seen := make(map[string]bool)

	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}

	for _, f := range fields {
		add(f)
	}

	for _, row := range rows {
		for _, k := range slices.Sorted(maps.Keys(row)) {
			add(k)
		}
	}

	return cols
}

// EncodeCell renders a value for a csv cell. Lists and objects are written as compact JSON; strings
// that would read back as JSON are quoted so a scalar never decodes as a list.
func EncodeCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		if strings.HasPrefix(val, "[") || strings.HasPrefix(val, "{") || strings.HasPrefix(val, `"`) {
			data, _ := json.Marshal(val)
			return string(data)
		}
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case []any, []string, map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}

// DecodeCell reverses EncodeCell: JSON lists/objects/quoted strings are decoded, anything else is
// returned as the raw string.
func DecodeCell(s string) any {
	if s == "" || !strings.ContainsAny(s[:1], `[{"`) {
		return s
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return s
	}
	return v
}

func writeCSV(w io.Writer, results search.ResultSet, fields []string) error {
	rows := make([]map[string]any, len(results))
	for i, rec := range results {
		rows[i] = Flatten(rec)
	}

	cols := Columns(rows, fields)
	cw := csv.NewWriter(w)

	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, row := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = EncodeCell(row[c])
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
