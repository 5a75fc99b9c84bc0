package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/censys-research/censys-search-go/pkg/output"
	"github.com/censys-research/censys-search-go/pkg/search"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "search a censys index",
	Long: `Search a censys index and write the results to the screen or a file.

v1 indexes (ipv4, certs, websites) return a single page of records restricted to --fields.
v2 indexes (hosts, certs with --v2) and the platform index are paged with --pages.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var (
	indexType   = search.DefaultIndex
	queryType   string
	outFormat   = string(search.FormatScreen)
	outputPath  string
	openBrowser bool
	pages       = 1
	fields      []string
	overwrite   bool
	maxRecords  int
	useV2       bool
)

// searchQuery builds the query from the command line flags.
func searchQuery(query string) (search.Query, error) {
	format, err := search.ParseFormat(outFormat)
	if err != nil {
		return search.Query{}, err
	}

	index := indexType
	if queryType != "" {
		index = queryType
	}

	q := search.Query{
		Query:      query,
		Index:      index,
		Format:     format,
		Fields:     fields,
		Overwrite:  overwrite,
		MaxRecords: maxRecords,
		Pages:      pages,
	}
	if useV2 {
		q.Generation = search.V2
	}

	return q, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	q, err := searchQuery(args[0])
	if err != nil {
		return err
	}

	if openBrowser {
		spec, err := search.Resolve(q.Index, q.Generation)
		if err != nil {
			return err
		}
		return search.Open(search.SearchURL(spec, q.Query))
	}

	conf, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	statuscb, stopSpinner := newSpinner()
	s := newSearcher(conf, statuscb)

	// resolve the v1 field list up front so the csv header leads with it.
	selected, err := s.Fields(q)
	if err != nil {
		return err
	}

	results, err := s.Search(ctx, q)
	stopSpinner()

	if err != nil {
		return fmt.Errorf("error searching %s: %w", q.Index, err)
	}

	log.Infof("found %d results", len(results))

	err = output.Write(os.Stdout, results, output.Options{
		Format:  q.Format,
		Path:    outputPath,
		Fields:  selected,
		NoColor: noColors,
	})
	if err != nil {
		log.Errorf("Error writing log file. Error: %v", err)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&indexType, "index-type", indexType, "Index to search (see `censys indexes`)")
	searchCmd.Flags().StringVar(&queryType, "query_type", "", "alias for --index-type")
	_ = searchCmd.Flags().MarkHidden("query_type")
	searchCmd.Flags().StringVarP(&outFormat, "format", "f", outFormat, "Output format (screen, json, csv)")
	searchCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write results to this file instead of stdout")
	searchCmd.Flags().BoolVar(&openBrowser, "open", false, "Open the query in the censys search web app and exit")
	searchCmd.Flags().IntVar(&pages, "pages", pages, "Number of pages to fetch, -1 for all (v2 and platform)")
	searchCmd.Flags().StringSliceVar(&fields, "fields", []string{}, "Fields to return (v1, can be specified multiple times)")
	searchCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Only return --fields instead of merging them with the default fields (v1)")
	searchCmd.Flags().IntVar(&maxRecords, "max-records", 0, "Maximum number of records to return (v1)")
	searchCmd.Flags().BoolVar(&useV2, "v2", false, "Use the v2 index for names present in both versions (e.g. certs)")
}
