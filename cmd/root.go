package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/spiractl/config"
	"github.com/s0up4200/spiractl/filter"
	"github.com/s0up4200/spiractl/output"
	"github.com/s0up4200/spiractl/spira"
)

var (
	cfgFile     string
	cfg         *config.Config
	logger      zerolog.Logger
	spiraClient *spira.Client
	filters     *filter.Manager
	printer     *output.Printer

	// Command flags
	outputFormat    string
	showDescription bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "spiractl",
	Short: "A command line client for the Spira REST API",
	Long: `spiractl reads projects and requirements from a Spira server.

Requirements can be narrowed with filter expressions or presets from the
config file, and printed as a tree, JSON or YAML.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json or yaml (default from config)")
	rootCmd.PersistentFlags().BoolVar(&showDescription, "descriptions", false, "include descriptions in list output")

	// Add subcommands
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(requirementsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Override output format from command line if specified
	if cmd.Flags().Changed("output") {
		cfg.Output.Format = outputFormat
	}
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	printer = output.NewPrinter(cmd.OutOrStdout(), format, output.FormatOptions{
		ShowDescription: showDescription,
		Markdown:        cfg.Output.Markdown,
		Tree:            cfg.Output.Tree,
	})

	// Create Spira client
	version, err := spira.ParseVersion(cfg.Spira.Version)
	if err != nil {
		return err
	}
	spiraClient, err = spira.NewClient(cfg.Spira.URL, version, cfg.Spira.Username, cfg.Spira.APIKey, logger, clientOptions(cfg.Spira)...)
	if err != nil {
		return fmt.Errorf("failed to create Spira client: %w", err)
	}

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	return nil
}

// clientOptions translates the connection settings into client options
func clientOptions(sc config.SpiraConfig) []spira.Option {
	var opts []spira.Option
	if sc.Timeout > 0 {
		opts = append(opts, spira.WithTimeout(sc.Timeout))
	}
	if sc.ConnectTimeout > 0 {
		opts = append(opts, spira.WithConnectTimeout(sc.ConnectTimeout))
	}
	if sc.InsecureTLS {
		opts = append(opts, spira.WithInsecureSkipVerify())
	}
	if sc.RateLimit > 0 {
		opts = append(opts, spira.WithRateLimit(sc.RateLimit, sc.RateBurst))
	}
	if sc.Concurrency > 0 {
		opts = append(opts, spira.WithConcurrency(sc.Concurrency))
	}
	return opts
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(writer).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to Spira",
	Long:  `Test the connection and credentials against your Spira instance and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing connection to Spira at %s...\n", spiraClient.Registry().Root())

	ctx := cmd.Context()
	if err := spiraClient.TestConnection(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	fmt.Fprintln(out, "✓ Connection successful!")

	projects, err := spiraClient.Projects(ctx)
	if err != nil {
		return fmt.Errorf("failed to get projects: %w", err)
	}

	fmt.Fprintf(out, "\nSpira Statistics:\n")
	fmt.Fprintf(out, "- API version: %s\n", spiraClient.Version())
	fmt.Fprintf(out, "- Total projects: %d\n", len(projects))

	if presets := filters.ListFilters(); len(presets) > 0 {
		fmt.Fprintf(out, "\nFilter presets:\n")
		for _, name := range presets {
			f, _ := filters.GetFilter(name)
			fmt.Fprintf(out, "  • %s: %s\n", name, f.Expression())
		}
	}

	return nil
}
