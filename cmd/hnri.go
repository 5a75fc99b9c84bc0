package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/censys-research/censys-search-go/pkg/hnri"
	"github.com/censys-research/censys-search-go/pkg/search"
	"github.com/spf13/cobra"
)

var hnriCmd = &cobra.Command{
	Use:   "hnri",
	Short: "home network risk index: what censys can see on your public IP",
	Args:  cobra.NoArgs,
	RunE:  runHNRI,
}

var hnriOpen bool

func runHNRI(cmd *cobra.Command, args []string) error {
	if hnriOpen {
		return search.Open(search.AccountURL)
	}

	conf, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	statuscb, stopSpinner := newSpinner()
	defer stopSpinner()

	viewer, err := newSearcher(conf, statuscb).HostViewer()
	if err != nil {
		return err
	}

	analyzer := hnri.New(viewer,
		hnri.WithHTTPClient(&http.Client{Timeout: conf.GetTimeout()}),
		hnri.WithIPEchoURL(conf.GetIPEchoURL()),
		hnri.WithRisks(conf.GetRisks()),
		hnri.WithStatusCallback(statuscb),
	)

	report, err := analyzer.Run(ctx)
	stopSpinner()

	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, hnri.NewRenderer(os.Stdout, noColors).Render(report))
	return nil
}

func init() {
	rootCmd.AddCommand(hnriCmd)
	hnriCmd.Flags().BoolVar(&hnriOpen, "open", false, "Open your censys account page and exit")
}
