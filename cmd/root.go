package cmd

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/censys-research/censys-search-go/pkg/config"
	"github.com/censys-research/censys-search-go/pkg/search"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var rootCmd = &cobra.Command{
	Use:           "censys",
	Short:         "query the censys search apis from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	apiID          string
	apiSecret      string
	organizationId string
	logLevel       string
	configFile     = ""
	noColors       = false // don't display colored output
	showConf       = false // show the configuration in yaml format before running the command
)

// loadConfig builds the effective config: flags override the environment, which overrides the
// config file, which overrides the built-in defaults.
func loadConfig() (*config.Config, error) {
	conf, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	conf.ApplyEnv(os.Getenv)

	var opts []config.ConfigOption
	if apiID != "" {
		opts = append(opts, config.WithAPIID(apiID))
	}
	if apiSecret != "" {
		opts = append(opts, config.WithAPISecret(apiSecret))
	}
	if organizationId != "" {
		opts = append(opts, config.WithOrganizationID(organizationId))
	}
	for _, opt := range opts {
		opt(conf)
	}

	if showConf {
		y, err := yaml.Marshal(conf.Redacted())
		if err != nil {
			return nil, fmt.Errorf("error marshalling config to yaml: %w", err)
		}
		fmt.Fprintln(os.Stderr, strings.TrimSpace(string(y)))
	}

	return conf, nil
}

func newSearcher(conf *config.Config, statuscb func(string)) *search.Searcher {
	return search.New(
		search.WithConfig(conf),
		search.WithHTTPClient(&http.Client{Timeout: conf.GetTimeout()}),
		search.WithStatusCallback(statuscb),
	)
}

// newSpinner returns a status callback that drives a spinner on stderr, and a func to stop it.
// Nothing is drawn when stderr isn't a terminal.
func newSpinner() (func(string), func()) {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return func(message string) { log.Debug(message) }, func() {}
	}

	// i like the charsets[21] spinner characters...
	s := spinner.New(spinner.CharSets[21], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	statuscb := func(message string) {
		s.Suffix = " " + message
		if !s.Active() {
			s.Start()
		}
	}

	stop := func() {
		if s.Active() {
			s.Stop()
		}
	}

	return statuscb, stop
}

func initLogging() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
		PadLevelText:  true,
		DisableColors: noColors,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return f.Function + ": ", fmt.Sprintf("%s:%d", f.File, f.Line)
		},
	})

	switch logLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	case "fatal":
		log.SetLevel(log.FatalLevel)
	case "panic":
		log.SetLevel(log.PanicLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
}

// Execute runs the root command. Errors are logged here; the caller decides the exit code.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiID, "api-id", "", "Censys API ID (default: $CENSYS_API_ID)")
	rootCmd.PersistentFlags().StringVar(&apiSecret, "api-secret", "", "Censys API secret (default: $CENSYS_API_SECRET)")
	rootCmd.PersistentFlags().StringVarP(&organizationId, "org", "O", "", "Platform organization ID (default: $CENSYS_PLATFORM_ORGID)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "L", "", "Log level (debug, info, warn*, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the configuration file (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVar(&noColors, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&showConf, "showconf", showConf, "Show the configuration in YAML format before running the command")

	cobra.OnInitialize(initLogging)
}
