// Command papers searches PubMed and lists papers with non-academic authors.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/henrybloomingdale/papers-cli/internal/affiliation"
	"github.com/henrybloomingdale/papers-cli/internal/config"
	"github.com/henrybloomingdale/papers-cli/internal/eutils"
	"github.com/henrybloomingdale/papers-cli/internal/ncbi"
	"github.com/henrybloomingdale/papers-cli/internal/observability"
	"github.com/henrybloomingdale/papers-cli/internal/output"
	"github.com/henrybloomingdale/papers-cli/internal/pipeline"
)

const metricsNamespace = "papers"

var (
	flagFile        string
	flagDebug       bool
	flagJSON        bool
	flagYAML        bool
	flagHuman       bool
	flagRIS         string
	flagLimit       int
	flagAPIKey      string
	flagConfig      string
	flagMetricsFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err the way users of the tool expect: transport
// failures are blamed on PubMed, everything else is unexpected.
func reportError(w io.Writer, err error) {
	var te *ncbi.TransportError
	if errors.As(err, &te) {
		fmt.Fprintf(w, "Error while fetching data from PubMed: %v\n", err)
		return
	}
	fmt.Fprintf(w, "An unexpected error occurred: %v\n", err)
}

var rootCmd = &cobra.Command{
	Use:   "papers <query>",
	Short: "Find PubMed papers with non-academic authors",
	Long: `Search PubMed, fetch paper summaries, and list the authors whose
affiliation does not mention a university. Results print to stdout or
export to CSV with --file.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runSearch,
}

func init() {
	rootCmd.Flags().StringVarP(&flagFile, "file", "f", "", "Write results to this CSV file")
	rootCmd.Flags().BoolVarP(&flagDebug, "debug", "d", false, "Print debug information")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as structured JSON")
	rootCmd.Flags().BoolVar(&flagYAML, "yaml", false, "Output as YAML")
	rootCmd.Flags().BoolVarP(&flagHuman, "human", "H", false, "Rich colorful terminal output")
	rootCmd.Flags().StringVar(&flagRIS, "ris", "", "Export results to RIS file")
	rootCmd.Flags().IntVar(&flagLimit, "limit", 0, "Maximum number of results (0 = PubMed default)")
	rootCmd.Flags().StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "NCBI API key (or set NCBI_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ./papers.yaml)")

	rootCmd.AddCommand(classifyCmd)
}

func outputCfg() output.OutputConfig {
	return output.OutputConfig{
		JSON:    flagJSON,
		YAML:    flagYAML,
		Human:   flagHuman,
		CSVFile: flagFile,
		RISFile: flagRIS,
	}
}

func validateFlags() error {
	if flagLimit < 0 {
		return fmt.Errorf("--limit must be >= 0, got %d", flagLimit)
	}
	return outputCfg().Validate()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagAPIKey != "" {
		cfg.NCBI.APIKey = flagAPIKey
	}
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagMetricsFile != "" {
		cfg.Metrics.Textfile = flagMetricsFile
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

func newEutilsClient(cfg *config.Config, logger zerolog.Logger, metrics *observability.Metrics) *eutils.Client {
	opts := append(cfg.ClientOptions(), ncbi.WithLogger(logger), ncbi.WithMetrics(metrics))
	return eutils.NewClientWithBase(ncbi.NewBaseClient(opts...))
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validateFlags(); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	metrics := observability.NewMetrics(metricsNamespace)
	client := newEutilsClient(cfg, logger, metrics)
	query := strings.Join(args, " ")

	logger.Debug().Str("query", query).Str("base_url", cfg.NCBI.BaseURL).Msg("searching PubMed")

	report, err := pipeline.Run(cmd.Context(), client, query, pipeline.Options{
		Limit:    flagLimit,
		Logger:   logger,
		Observer: metrics,
	})
	if err == nil {
		err = output.FormatReport(cmd.OutOrStdout(), report, outputCfg())
	}

	if cfg.Metrics.Textfile != "" {
		if werr := metrics.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Warn().Err(werr).Msg("metrics export failed")
		}
	}
	return err
}

// classifyCmd exposes the affiliation heuristic for ad-hoc checks.
var classifyCmd = &cobra.Command{
	Use:   "classify <affiliation> [affiliation...]",
	Short: "Show how affiliation strings are classified",
	Long: `Print "academic" or "non-academic" for each argument using the same
rule applied to search results: an affiliation is academic when it
contains "university" in any letter case.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, a := range args {
			label := "non-academic"
			if affiliation.IsAcademic(a) {
				label = "academic"
			}
			fmt.Fprintf(w, "%-12s  %s\n", label, a)
		}
		return nil
	},
}
