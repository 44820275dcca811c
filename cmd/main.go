package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryan-cox/aimsledger/internal/airframe"
	"github.com/bryan-cox/aimsledger/internal/clipboard"
	"github.com/bryan-cox/aimsledger/internal/config"
	"github.com/bryan-cox/aimsledger/internal/metrics"
	"github.com/bryan-cox/aimsledger/internal/model"
	"github.com/bryan-cox/aimsledger/internal/report"
	"github.com/bryan-cox/aimsledger/internal/roster"
	"github.com/bryan-cox/aimsledger/internal/server"
)

// --- Cobra Command Definitions ---

var (
	// Used for flags.
	filePath     string
	configPath   string
	copyOutput   bool
	minRest      time.Duration
	firstOfficer bool
	allDayEvents bool
	startDate    string
	endDate      string
	listenAddr   string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "aimsledger",
		Short: "Convert AIMS detailed rosters into logbook and calendar formats.",
		Long:  `aimsledger reads an AIMS detailed roster HTML export, reconstructs duties and sectors, and renders them as a roster summary, flight journal, logbook CSV or iCalendar feed.`,
	}

	rosterCmd = &cobra.Command{
		Use:   "roster",
		Short: "Print a one-line summary per duty.",
		Run:   runFormatCommand(report.FormatRoster),
	}

	efjCmd = &cobra.Command{
		Use:   "efj",
		Short: "Print duties in electronic flight journal form.",
		Run:   runFormatCommand(report.FormatEFJ),
	}

	csvCmd = &cobra.Command{
		Use:   "csv",
		Short: "Print a logbook CSV of flying sectors.",
		Run:   runFormatCommand(report.FormatCSV),
	}

	icalCmd = &cobra.Command{
		Use:   "ical",
		Short: "Print an iCalendar feed of duties.",
		Run:   runFormatCommand(report.FormatICal),
	}

	hoursCmd = &cobra.Command{
		Use:   "hours",
		Short: "Total block, night and duty hours.",
		Long:  `Totals block, night and duty hours for the duties starting in a date range. Without dates the whole roster is used.`,
		Run:   runHoursCommand,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve roster conversion over HTTP.",
		Run:   runServeCommand,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&filePath, "file", "-", "Path to the detailed roster HTML file, or - for stdin.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "aimsledger.yml", "Path to the YAML config file.")
	rootCmd.PersistentFlags().BoolVar(&copyOutput, "copy", false, "Also copy the output to the clipboard.")
	rootCmd.PersistentFlags().DurationVar(&minRest, "min-rest", 0, "Shortest rest between duties (overrides min_rest).")

	csvCmd.Flags().BoolVar(&firstOfficer, "fo", false, "Log as first officer, taking the captain from the crew list.")
	icalCmd.Flags().BoolVar(&allDayEvents, "ade", false, "Include all-day events such as days off.")

	hoursCmd.Flags().StringVar(&startDate, "start-date", "", "Start date (YYYY-MM-DD).")
	hoursCmd.Flags().StringVar(&endDate, "end-date", "", "End date (YYYY-MM-DD).")

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides server.addr).")

	rootCmd.AddCommand(rosterCmd, efjCmd, csvCmd, icalCmd, hoursCmd, serveCmd)
}

// --- Main Application Entry Point ---

func main() {
	// Setup structured JSON logger for errors.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	Execute()
}

// --- Command Execution Logic ---

func runFormatCommand(format string) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		r := mustLoadRoster(cmd, cfg)

		loc, err := cfg.Location()
		if err != nil {
			slog.Error("failed to load time zone", "error", err, "timezone", cfg.Timezone)
			os.Exit(1)
		}
		opts := report.Options{
			Location:     loc,
			FirstOfficer: firstOfficer || cfg.FirstOfficer,
			AllDayEvents: allDayEvents,
		}
		if format == report.FormatCSV || format == report.FormatEFJ {
			client := airframe.New(cfg.Airframe.URL, cfg.Airframe.Timeout)
			opts.Airframes = client.Resolve(cmd.Context(), r)
		}

		var buf bytes.Buffer
		if err := report.Render(&buf, format, r, opts); err != nil {
			slog.Error("failed to render roster", "error", err, "format", format)
			os.Exit(1)
		}
		emit(cmd, buf.String())
	}
}

func runHoursCommand(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	r := mustLoadRoster(cmd, cfg)

	from, to, err := report.DateRange(r.Duties, startDate, endDate)
	if err != nil {
		slog.Error("failed to process date range", "error", err, "start_date", startDate, "end_date", endDate)
		os.Exit(1)
	}

	var buf bytes.Buffer
	report.PrintSummary(&buf, report.Summarize(r.Duties, from, to))
	emit(cmd, buf.String())
}

func runServeCommand(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	loc, err := cfg.Location()
	if err != nil {
		slog.Error("failed to load time zone", "error", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	addr := cfg.Server.Addr
	if listenAddr != "" {
		addr = listenAddr
	}
	var lookup *airframe.Client
	if cfg.Airframe.URL != "" {
		lookup = airframe.New(cfg.Airframe.URL, cfg.Airframe.Timeout)
	}

	srv := server.New(server.Config{
		Addr:      addr,
		MinRest:   cfg.MinRest,
		Location:  loc,
		Airframes: lookup,
		Metrics:   metrics.NewCollector(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.ListenAndServe(ctx); err != nil {
		slog.Error("server failed", "error", err, "addr", addr)
		os.Exit(1)
	}
}

// --- Helper Functions ---

func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config file", "error", err, "path", configPath)
		os.Exit(1)
	}
	if minRest > 0 {
		cfg.MinRest = minRest
	}
	return cfg
}

func mustLoadRoster(cmd *cobra.Command, cfg *config.Config) *model.Roster {
	r, err := loadRoster(cmd.InOrStdin(), filePath, cfg)
	if err != nil {
		slog.Error("failed to load roster", "error", err, "path", filePath)
		os.Exit(1)
	}
	return r
}

func loadRoster(stdin io.Reader, path string, cfg *config.Config) (*model.Roster, error) {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("could not open roster '%s': %w", path, err)
		}
		defer f.Close()
		in = f
	}

	r, err := roster.Parse(in, roster.Options{MinRest: cfg.MinRest})
	if err != nil {
		return nil, err
	}
	for _, d := range r.Diagnostics {
		slog.Warn(d.Message, "date", d.Date.Format("2006-01-02"), "block", d.Block)
	}
	return r, nil
}

// emit prints output and, with --copy, places it on the clipboard.
func emit(cmd *cobra.Command, output string) {
	fmt.Fprint(cmd.OutOrStdout(), output)
	if !copyOutput {
		return
	}
	if err := clipboard.Copy(output); err != nil {
		slog.Warn("failed to copy output to clipboard", "error", err)
	}
}
