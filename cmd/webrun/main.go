package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/v0xg/webrun/internal/action"
	"github.com/v0xg/webrun/internal/browser"
	"github.com/v0xg/webrun/internal/export"
	"github.com/v0xg/webrun/internal/logging"
	"github.com/v0xg/webrun/internal/runner"
	"github.com/v0xg/webrun/internal/scraper"
)

var (
	headless bool
	width    int
	height   int
	profile  string
	jsonOut  string
	csvOut   string
	attr     string
	verbose  bool

	// Each subcommand binds its own timeout: pflag assigns the default into
	// the bound variable at registration time, so sharing one variable would
	// let the last registration win.
	runTimeout    time.Duration
	scrapeTimeout time.Duration
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "webrun",
		Short: "Run scripted browser scenarios and scrape pages",
		Long: `webrun executes user-authored browser scenarios: an ordered list of
actions (navigate, click, type, key presses, scrolling, waits, extraction)
stored as a JSON file, run against a controlled browser session.

Example scenario step:

  {"type": "click", "selector": "button.submit", "description": "Submit the form"}`,
		SilenceUsage: true,
	}

	runCmd := &cobra.Command{
		Use:   "run <scenario.json>",
		Short: "Execute a scenario file against a browser session",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().BoolVar(&headless, "headless", envBool("WEBRUN_HEADLESS", true), "Run the browser headless")
	runCmd.Flags().IntVar(&width, "width", 1280, "Viewport width")
	runCmd.Flags().IntVar(&height, "height", 720, "Viewport height")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", envDuration("WEBRUN_TIMEOUT", 30*time.Second), "Navigation timeout")
	runCmd.Flags().StringVar(&profile, "profile", "", "Chrome/Chromium profile directory for authenticated sessions (close browser first)")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "Write extracted records to a JSON file")
	runCmd.Flags().StringVar(&csvOut, "csv", "", "Write extracted records to a CSV file")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show internal diagnostics")

	scrapeCmd := &cobra.Command{
		Use:   "scrape <url> <selector>",
		Short: "Fetch a static page once and extract matching elements",
		Args:  cobra.ExactArgs(2),
		RunE:  runScrape,
	}
	scrapeCmd.Flags().StringVar(&attr, "attr", "", "Capture only this attribute per element")
	scrapeCmd.Flags().DurationVar(&scrapeTimeout, "timeout", envDuration("WEBRUN_TIMEOUT", 10*time.Second), "Request timeout")
	scrapeCmd.Flags().StringVar(&jsonOut, "json", "", "Write extracted records to a JSON file")
	scrapeCmd.Flags().StringVar(&csvOut, "csv", "", "Write extracted records to a CSV file")

	rootCmd.AddCommand(runCmd, scrapeCmd)

	return rootCmd
}

func runScenario(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	actions, err := action.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d actions from %s\n", len(actions), args[0])

	sess, err := browser.New(browser.Options{
		Headless:   headless,
		Width:      width,
		Height:     height,
		Timeout:    runTimeout,
		ProfileDir: profile,
	})
	if err != nil {
		// The one startup-fatal condition; cobra prints the returned error,
		// so don't report it a second time here.
		return fmt.Errorf("start browser session: %w", err)
	}

	r := runner.New(sess, runner.WithLogger(logger))
	defer r.Close()

	// SIGINT stops the run at the next action boundary; the in-flight
	// action is allowed to finish.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		fmt.Println("Interrupt received, stopping after the current action...")
		r.Stop()
	}()

	var results []runner.Record
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(actions,
			func(msg string) { fmt.Println(msg) },
			func(batch []runner.Record) { results = append(results, batch...) },
		)
	}()
	<-done

	return writeResults(recordsToRows(results))
}

func runScrape(cmd *cobra.Command, args []string) error {
	url, selector := args[0], args[1]

	items, err := scraper.Scrape(context.Background(), url, selector, scraper.Options{
		Attr:    attr,
		Timeout: scrapeTimeout,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Extracted %d elements using %s\n", len(items), selector)

	rows := make([]map[string]string, len(items))
	for i, item := range items {
		fmt.Printf("  [%d] %s\n", i+1, item.Text)
		rows[i] = item.Record()
	}
	return writeResults(rows)
}

func writeResults(rows []map[string]string) error {
	if jsonOut != "" {
		if err := export.ToJSON(rows, jsonOut); err != nil {
			return err
		}
		fmt.Printf("Wrote %d records to %s\n", len(rows), jsonOut)
	}
	if csvOut != "" {
		if err := export.ToCSV(rows, csvOut); err != nil {
			return err
		}
		fmt.Printf("Wrote %d records to %s\n", len(rows), csvOut)
	}
	return nil
}

func recordsToRows(records []runner.Record) []map[string]string {
	rows := make([]map[string]string, len(records))
	for i, rec := range records {
		rows[i] = rec
	}
	return rows
}

func newLogger() *slog.Logger {
	if verbose {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelInfo)
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
