// list_fields reads a JSON array of search results (as written by `censys search -f json`) on
// stdin and prints every field path seen, with its JSON type, in a form that can be pasted into
// a default_fields list.
package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/censys-research/censys-search-go/pkg/output"
)

type Field struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

func typeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "list"
	default:
		return "object"
	}
}

func main() {
	dec := json.NewDecoder(os.Stdin)
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		panic(err)
	}

	typeMap := make(map[string]string)
	for _, rec := range records {
		for path, v := range output.Flatten(rec) {
			if _, ok := typeMap[path]; !ok || typeMap[path] == "null" {
				typeMap[path] = typeOf(v)
			}
		}
	}

	var fields []Field
	for _, path := range slices.Sorted(maps.Keys(typeMap)) {
		fields = append(fields, Field{Path: path, Type: typeMap[path]})
	}

	if len(os.Args) > 1 && os.Args[1] == "-json" {
		out, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			panic(err)
		}
		fmt.Println(string(out))
		return
	}

	for _, f := range fields {
		fmt.Printf("%q, // %s\n", f.Path, f.Type)
	}
}
