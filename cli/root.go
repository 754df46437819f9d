// Package cli wires the triage engine to the command line: it loads the
// snapshot files, evaluates them, renders the report and publishes metrics.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hospital-triage/config"
	"hospital-triage/errors"
	"hospital-triage/formatter"
	"hospital-triage/metrics"
	"hospital-triage/models"
	"hospital-triage/parser"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	logger zerolog.Logger

	patients    string
	resources   string
	snapshot    string
	format      string
	metricsAddr string
	pushURL     string
	logLevel    string
	now         string
	wait        bool
}

// NewRootCmd builds the hospital-triage command tree. Flag defaults come from
// cfg, so flags override environment and config file values.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	a := &app{logger: logger}

	root := &cobra.Command{
		Use:           "hospital-triage",
		Short:         "Waiting-room statistics, wait forecasts and operational advice",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.prepare()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.patients, "patients", cfg.PatientsFile, "Patients CSV file")
	pf.StringVar(&a.resources, "resources", cfg.ResourcesFile, "Resources CSV file")
	pf.StringVar(&a.snapshot, "snapshot", cfg.SnapshotFile, "YAML snapshot holding patients and resources (wins over the CSV files)")
	pf.StringVar(&a.format, "format", cfg.Format, "Output format: text|json|csv")
	pf.StringVar(&a.metricsAddr, "metrics-addr", cfg.MetricsAddr, "Address to expose Prometheus metrics (e.g., :9090)")
	pf.StringVar(&a.pushURL, "push-url", cfg.PushURL, "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	pf.StringVar(&a.logLevel, "log-level", cfg.LogLevel, "Log level: trace|debug|info|warn|error")
	pf.StringVar(&a.now, "now", "", "Evaluation time in RFC 3339 (defaults to the current time)")
	pf.BoolVar(&a.wait, "wait", false, "Keep process running after completion to allow for metric scraping")

	root.AddCommand(
		a.statsCmd(),
		a.forecastCmd(cfg.Area()),
		a.recommendCmd(),
		a.reportCmd(),
		a.queueCmd(),
		a.watchCmd(),
	)

	return root
}

func (a *app) prepare() error {
	a.format = strings.ToLower(a.format)
	if !config.ValidFormats[a.format] {
		return fmt.Errorf("format must be one of: text, json, csv (got: %s)", a.format)
	}

	lvl, err := zerolog.ParseLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.logLevel, err)
	}
	a.logger = a.logger.Level(lvl)

	if a.now != "" {
		if _, err := time.Parse(time.RFC3339, a.now); err != nil {
			return fmt.Errorf("invalid --now %q: %w", a.now, err)
		}
	}
	return nil
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show waiting-room statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOnce(cmd, Selection{Statistics: true})
		},
	}
}

func (a *app) forecastCmd(defaultArea models.Area) *cobra.Command {
	var area string
	var all bool

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast the wait in one care area, or in all of them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := Selection{Forecasts: true}
			if !all {
				parsed, ok := models.ParseArea(area)
				if !ok {
					return fmt.Errorf("%w: %q", errors.ErrInvalidArea, area)
				}
				sel.Area = parsed
			}
			return a.runOnce(cmd, sel)
		},
	}

	cmd.Flags().StringVar(&area, "area", string(defaultArea), "Care area: emergency|outpatient|icu|surgery")
	cmd.Flags().BoolVar(&all, "all", false, "Forecast every care area")
	cmd.MarkFlagsMutuallyExclusive("area", "all")
	return cmd
}

func (a *app) recommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Show operational recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOnce(cmd, Selection{Advisories: true})
		},
	}
}

func (a *app) reportCmd() *cobra.Command {
	var withQueue bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show statistics, forecasts for every area and recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := Everything
			sel.Queue = withQueue
			return a.runOnce(cmd, sel)
		},
	}

	cmd.Flags().BoolVar(&withQueue, "queue", false, "Also list the waiting queue and every resource")
	return cmd
}

func (a *app) queueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "List waiting patients, newest arrival first, and resource availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOnce(cmd, Selection{Queue: true})
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print a full report and print it again whenever an input file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if a.metricsAddr != "" {
				served := serveMetrics(ctx, a.metricsAddr, a.logger)
				defer func() {
					stop()
					<-served
				}()
			}

			out := cmd.OutOrStdout()
			return Watch(ctx, a.sources().Paths(), a.logger, func() error {
				if err := a.evaluate(out, Everything); err != nil {
					return err
				}
				if a.pushURL != "" {
					pushMetrics(a.pushURL, a.logger)
				}
				return nil
			})
		},
	}
}

// runOnce evaluates the snapshot a single time and publishes metrics.
func (a *app) runOnce(cmd *cobra.Command, sel Selection) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.metricsAddr != "" {
		srvCtx, cancel := context.WithCancel(ctx)
		served := serveMetrics(srvCtx, a.metricsAddr, a.logger)
		defer func() {
			cancel()
			<-served
		}()
	}

	if err := a.evaluate(cmd.OutOrStdout(), sel); err != nil {
		return err
	}

	if a.pushURL != "" {
		pushMetrics(a.pushURL, a.logger)
	}

	if a.wait && a.metricsAddr != "" {
		a.logger.Info().Msg("process kept alive for metric scraping, press Ctrl+C to exit")
		<-ctx.Done()
		a.logger.Info().Msg("exiting")
	}
	return nil
}

func (a *app) evaluate(w io.Writer, sel Selection) error {
	snap, err := parser.Load(a.sources())
	if err != nil {
		return err
	}

	now := a.clock()
	report := Evaluate(snap, sel, now)
	metrics.RecordReport(report)

	a.logger.Debug().
		Int("patients", len(snap.Patients)).
		Int("resources", len(snap.Resources)).
		Int("advisories", len(report.Advisories)).
		Msg("snapshot evaluated")

	_, err = io.WriteString(w, Render(report, a.format))
	return err
}

func (a *app) sources() parser.Sources {
	return parser.Sources{
		PatientsPath:  a.patients,
		ResourcesPath: a.resources,
		SnapshotPath:  a.snapshot,
	}
}

// clock returns the --now override, or the current time.
func (a *app) clock() time.Time {
	if a.now != "" {
		if t, err := time.Parse(time.RFC3339, a.now); err == nil {
			return t
		}
	}
	return time.Now()
}

// Render formats report as text, json or csv. Unknown formats fall back to text.
func Render(report *models.Report, format string) string {
	switch format {
	case "json":
		return formatter.FormatJSON(report) + "\n"
	case "csv":
		return formatter.FormatCSV(report)
	default: // "text"
		return formatter.FormatText(report)
	}
}
