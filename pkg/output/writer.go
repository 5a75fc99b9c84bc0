package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/censys-research/censys-search-go/pkg/search"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/pretty"
	"golang.org/x/term"
)

// Options controls how a result set is written.
type Options struct {
	Format  search.Format
	Path    string   // write to this file instead of the writer passed to Write
	Fields  []string // csv columns to put first (the fields that were requested)
	NoColor bool
}

// WriteError is returned when the output destination can't be created or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("error writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Write serializes results in opts.Format to opts.Path, or to w when no path is set.
func Write(w io.Writer, results search.ResultSet, opts Options) (err error) {
	dest := "<stdout>"

	if opts.Path != "" {
		dest = opts.Path

		f, ferr := os.Create(opts.Path)
		if ferr != nil {
			return &WriteError{Path: dest, Err: ferr}
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = &WriteError{Path: dest, Err: cerr}
			}
		}()

		w = f
	}

	switch opts.Format {
	case search.FormatJSON:
		err = writeJSON(w, results)
	case search.FormatCSV:
		err = writeCSV(w, results, opts.Fields)
	case search.FormatScreen, "":
		err = writeScreen(w, results, !opts.NoColor && isTerminal(w))
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}

	if err != nil {
		return &WriteError{Path: dest, Err: err}
	}

	if opts.Path != "" {
		log.Infof("wrote %d results to %s", len(results), opts.Path)
	}

	return nil
}

func writeJSON(w io.Writer, results search.ResultSet) error {
	if results == nil {
		results = search.ResultSet{}
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}

	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func writeScreen(w io.Writer, results search.ResultSet, color bool) error {
	for _, rec := range results {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshalling result: %w", err)
		}

		data = pretty.Pretty(data)
		if color {
			data = pretty.Color(data, nil)
		}

		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
