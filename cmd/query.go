// Package cmd provides the cvedex command-line query interface.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cvedex/api"
	"cvedex/bootstrap"
	"cvedex/config"
	"cvedex/search"
	"cvedex/service"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

// defaultTimeout bounds a single CLI query
const defaultTimeout = 30 * time.Second

// queryOptions are the persistent flags shared by every subcommand
type queryOptions struct {
	outputJSON  bool
	configFile  string
	fixturePath string
	noColor     bool
	quiet       bool
}

// NewQueryCmd creates the root query command with all subcommands.
func NewQueryCmd() *cobra.Command {
	opts := &queryOptions{}

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Query the vulnerability index",
		Long: `Query the vulnerability index directly, without the HTTP server.

Uses the same configuration as the server. Pass --fixture to query a YAML or
JSON fixture instead of MongoDB.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor || opts.outputJSON {
				color.NoColor = true
			}
		},
	}

	queryCmd.PersistentFlags().BoolVar(&opts.outputJSON, "json", false, "Output in JSON format")
	queryCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file path")
	queryCmd.PersistentFlags().StringVar(&opts.fixturePath, "fixture", "", "Serve queries from a fixture file")
	queryCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	queryCmd.PersistentFlags().BoolVar(&opts.quiet, "quiet", false, "Suppress non-essential output")

	queryCmd.AddCommand(newSearchCmd(opts))
	queryCmd.AddCommand(newAdvancedCmd(opts))
	queryCmd.AddCommand(newSuggestCmd(opts))
	queryCmd.AddCommand(newCVECmd(opts))
	queryCmd.AddCommand(newTimelineCmd(opts))
	queryCmd.AddCommand(newVendorStatsCmd(opts))
	queryCmd.AddCommand(newProductStatsCmd(opts))

	return queryCmd
}

// newSearchCmd creates the 'search' subcommand
func newSearchCmd(opts *queryOptions) *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search vulnerabilities, vendors and products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")
			return opts.run(cmd, "Searching...", func(ctx context.Context, svc api.Services) (interface{}, func(io.Writer), error) {
				res, err := svc.Search.GlobalSearch(ctx, term, page, limit)
				if err != nil {
					return nil, nil, err
				}
				return res, func(w io.Writer) { renderGlobalSearch(w, term, res) }, nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", service.DefaultPageLimit, "Results per kind")
	return cmd
}

// newAdvancedCmd creates the 'advanced' subcommand
func newAdvancedCmd(opts *queryOptions) *cobra.Command {
	var (
		page, limit                         int
		cveID, description, vendor, product string
		severity, startDate, endDate, cweID string
		minCVSS, maxCVSS                    float64
	)

	cmd := &cobra.Command{
		Use:   "advanced",
		Short: "Search vulnerabilities with combined criteria",
		Example: `  cvedex query advanced --vendor apache --min-cvss 9
  cvedex query advanced --severity HIGH --start 2023-01-01 --end 2023-12-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var criteria search.Criteria
			flags := cmd.Flags()
			setString := func(name string, v string, dst **string) {
				if flags.Changed(name) {
					s := v
					*dst = &s
				}
			}
			setString("cve", cveID, &criteria.CVEID)
			setString("description", description, &criteria.Description)
			setString("vendor", vendor, &criteria.Vendor)
			setString("product", product, &criteria.Product)
			setString("severity", severity, &criteria.Severity)
			setString("start", startDate, &criteria.StartDate)
			setString("end", endDate, &criteria.EndDate)
			setString("cwe", cweID, &criteria.CWEID)
			if flags.Changed("min-cvss") {
				n := search.Number(minCVSS)
				criteria.MinCVSS = &n
			}
			if flags.Changed("max-cvss") {
				n := search.Number(maxCVSS)
				criteria.MaxCVSS = &n
			}

			return opts.run(cmd, "Searching...", func(ctx context.Context, svc api.Services) (interface{}, func(io.Writer), error) {
				res, err := svc.Search.AdvancedSearch(ctx, criteria, page, limit)
				if err != nil {
					return nil, nil, err
				}
				return res, func(w io.Writer) { renderVulnerabilityPage(w, res) }, nil
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&page, "page", 1, "Page number")
	f.IntVar(&limit, "limit", service.DefaultPageLimit, "Page size")
	f.StringVar(&cveID, "cve", "", "CVE id contains")
	f.StringVar(&description, "description", "", "Description contains")
	f.StringVar(&vendor, "vendor", "", "Affected vendor name contains")
	f.StringVar(&product, "product", "", "Affected product name contains")
	f.StringVar(&severity, "severity", "", "CRITICAL, HIGH, MEDIUM, LOW or NONE")
	f.Float64Var(&minCVSS, "min-cvss", 0, "Minimum CVSS score")
	f.Float64Var(&maxCVSS, "max-cvss", 0, "Maximum CVSS score")
	f.StringVar(&startDate, "start", "", "Published on or after (YYYY-MM-DD)")
	f.StringVar(&endDate, "end", "", "Published on or before (YYYY-MM-DD)")
	f.StringVar(&cweID, "cwe", "", "Problem type CWE id")
	return cmd
}

// newSuggestCmd creates the 'suggest' subcommand
func newSuggestCmd(opts *queryOptions) *cobra.Command {
	var kind string
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Autocomplete CVE ids, vendor and product names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := service.ParseSuggestionKind(kind)
			if err != nil {
				return err
			}
			return opts.run(cmd, "", func(ctx context.Context, svc api.Services) (interface{}, func(io.Writer), error) {
				res, err := svc.Search.Suggestions(ctx, args[0], k, limit)
				if err != nil {
					return nil, nil, err
				}
				return res, func(w io.Writer) { renderSuggestions(w, res) }, nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "type", "all", "all, cve, vendor or product")
	cmd.Flags().IntVar(&limit, "limit", service.DefaultSuggestionLimit, "Entries per kind")
	return cmd
}

// newCVECmd creates the 'cve' subcommand
func newCVECmd(opts *queryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cve <cve-id>",
		Short: "Show one vulnerability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, "", func(ctx context.Context, svc api.Services) (interface{}, func(io.Writer), error) {
				v, err := svc.Vulnerabilities.Get(ctx, strings.ToUpper(args[0]))
				if err != nil {
					return nil, nil, err
				}
				return v, func(w io.Writer) { renderVulnerability(w, v) }, nil
			})
		},
	}
}

// newTimelineCmd creates the 'timeline' subcommand
func newTimelineCmd(opts *queryOptions) *cobra.Command {
	var period string
	var limit int

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show publication counts per period",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := search.ParsePeriod(period)
			if err != nil {
				return err
			}
			return opts.run(cmd, "Aggregating...", func(ctx context.Context, svc api.Services) (interface{}, func(io.Writer), error) {
				points, err := svc.Vulnerabilities.Timeline(ctx, p, limit)
				if err != nil {
					return nil, nil, err
				}
				return points, func(w io.Writer) { renderTimeline(w, p, points) }, nil
			})
		},
	}

	cmd.Flags().StringVar(&period, "period", string(search.PeriodMonth), "day, week or month")
	cmd.Flags().IntVar(&limit, "limit", service.DefaultTimelineLimit, "Number of periods")
	return cmd
}

// newVendorStatsCmd creates the 'vendor-stats' subcommand
func newVendorStatsCmd(opts *queryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "vendor-stats <vendor-id>",
		Short: "Show statistics for one vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, "Computing statistics...", func(ctx context.Context, svc api.Services) (interface{}, func(io.Writer), error) {
				stats, err := svc.Vendors.Stats(ctx, args[0])
				if err != nil {
					return nil, nil, err
				}
				return stats, func(w io.Writer) { renderEntityStats(w, "VENDOR", stats) }, nil
			})
		},
	}
}

// newProductStatsCmd creates the 'product-stats' subcommand
func newProductStatsCmd(opts *queryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "product-stats <product-id>",
		Short: "Show statistics for one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, "Computing statistics...", func(ctx context.Context, svc api.Services) (interface{}, func(io.Writer), error) {
				stats, err := svc.Products.Stats(ctx, args[0])
				if err != nil {
					return nil, nil, err
				}
				return stats, func(w io.Writer) { renderEntityStats(w, "PRODUCT", stats) }, nil
			})
		},
	}
}

// queryFunc runs one query and returns the raw result with its table renderer
type queryFunc func(ctx context.Context, svc api.Services) (interface{}, func(io.Writer), error)

// run opens storage, executes q and prints the result as JSON or a table.
func (o *queryOptions) run(cmd *cobra.Command, progress string, q queryFunc) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), defaultTimeout)
	defer cancel()

	svc, cleanup, err := o.openServices(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var s *spinner.Spinner
	if progress != "" && !o.outputJSON && !o.quiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = " " + progress
		s.Start()
	}

	result, render, err := q(ctx, svc)

	if s != nil {
		s.Stop()
	}
	if err != nil {
		if !o.quiet {
			errorColor.Fprintf(cmd.ErrOrStderr(), "✗ %v\n", err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if o.outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	render(out)
	return nil
}

// openServices loads configuration and storage for a one-shot query.
// The returned cleanup closes the store.
func (o *queryOptions) openServices(ctx context.Context) (api.Services, func(), error) {
	if o.configFile != "" {
		viper.SetConfigFile(o.configFile)
	}
	if o.fixturePath != "" {
		viper.Set("storage.backend", config.BackendMemory)
		viper.Set("storage.fixture_path", o.fixturePath)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return api.Services{}, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Logs go to stderr at warn level so they do not mix with results.
	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logCfg.Build()
	if err != nil {
		return api.Services{}, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	sugar := logger.Sugar()

	store, err := bootstrap.InitStorage(ctx, cfg, sugar)
	if err != nil {
		_ = logger.Sync()
		return api.Services{}, nil, err
	}

	cleanup := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			sugar.Warnf("Failed to close storage during cleanup: %v", err)
		}
		if err := logger.Sync(); err != nil {
			sugar.Debugf("Failed to sync logger during cleanup: %v", err)
		}
	}
	return bootstrap.NewServices(store, sugar), cleanup, nil
}

// Execute runs the query command with the given arguments and exits on error.
func Execute(args []string) {
	queryCmd := NewQueryCmd()
	queryCmd.SetArgs(args)
	if err := queryCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
