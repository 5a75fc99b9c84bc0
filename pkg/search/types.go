package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/censys-research/censys-search-go/pkg/config"
	log "github.com/sirupsen/logrus"
)

// AllPages is the page count that fetches every page of a cursor paginated search.
const AllPages = -1

type Option func(*Searcher)

// StatusCallback is a simple callback that receives status update strings
type StatusCallback func(message string)

// Record is a single search result. The shape is whatever the API returned for the index: values
// are strings, json.Number, bools, nil, []any or map[string]any.
type Record map[string]any

// ResultSet is the ordered list of records produced by one search.
type ResultSet []Record

// Format is the output format a search result will be written in.
type Format string

const (
	FormatScreen Format = "screen"
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatScreen, FormatJSON, FormatCSV}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (expected screen, json or csv)", s)
}

// Query is everything needed to run a single search. Fields, Overwrite and MaxRecords only apply
// to v1 indexes; Pages only applies to v2 and platform indexes.
type Query struct {
	Query      string
	Index      string
	Generation Generation // zero routes by index name
	Format     Format
	Fields     []string
	Overwrite  bool
	MaxRecords int
	Pages      int
}

// Searcher routes queries to the executor of the api generation that owns the index.
type Searcher struct {
	config    *config.Config
	http      HTTPDoer
	statusCb  StatusCallback
	executors map[Generation]Executor
}

// Executor runs a query against one api generation.
type Executor interface {
	Search(ctx context.Context, q Query) (ResultSet, error)
}

// HostViewer fetches the full host record for a single IP.
type HostViewer interface {
	ViewHost(ctx context.Context, ip string) (Record, error)
}

// decodeRecord decodes a JSON object, keeping numbers as json.Number so they are written back out
// exactly as received.
func decodeRecord(raw []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("decoding record: not a JSON object")
	}

	return rec, nil
}

func decodeRecords(raws []string, index string) ResultSet {
	out := make(ResultSet, 0, len(raws))
	for _, raw := range raws {
		rec, err := decodeRecord([]byte(raw))
		if err != nil {
			log.WithField("index", index).Warnf("skipping result: %v", err)
			continue
		}
		out = append(out, rec)
	}
	return out
}
