// Command dwm runs the washing-machine pipeline against one or more
// parameter files. If --log-dir is set, each run gets its own log file
// (console output is mirrored to it, matching the source driver's
// print-to-both-console-and-logfile habit); otherwise it logs to the
// console only. If --capture-dir is set, each run also gets its own
// data-capture folder of intermediate CSV snapshots.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/oysterer/dwm/internal/capture"
	"github.com/oysterer/dwm/internal/report"
	"github.com/oysterer/dwm/pkg/dwm/config"
	"github.com/oysterer/dwm/pkg/dwm/pipeline"
	"github.com/oysterer/dwm/pkg/dwm/store"
	"github.com/oysterer/dwm/pkg/dwm/store/memstore"
	"github.com/oysterer/dwm/pkg/dwm/store/sqlite"
)

func main() {
	var (
		paramFiles = flag.String("params", "", "comma-separated list of parameter files to run, in order (required)")
		logDir     = flag.String("log-dir", "", "directory to write per-run log files into (optional; console-only if empty)")
		captureDir = flag.String("capture-dir", "", "base directory for per-run data-capture snapshots (optional, skipped if empty)")
		reportDir  = flag.String("report-dir", "", "directory to write the end-of-run summary report into (optional, stdout if empty)")
		statsDB    = flag.String("stats-db", "", "sqlite database for cross-run iteration history (optional; in-memory only if empty)")
	)
	flag.Parse()

	if *paramFiles == "" {
		log.Fatal("--params is required")
	}

	ctx := context.Background()

	var statsStore store.RunStatsStore
	if *statsDB != "" {
		s, err := sqlite.Open(ctx, *statsDB)
		if err != nil {
			log.Fatalf("open stats database: %v", err)
		}
		defer s.Close()
		statsStore = s
	} else {
		statsStore = memstore.NewRunStatsStore()
	}

	for _, path := range strings.Split(*paramFiles, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if err := runOne(ctx, path, *logDir, *captureDir, *reportDir, statsStore); err != nil {
			log.Fatalf("run %s: %v", path, err)
		}
	}
}

func runOne(ctx context.Context, paramFile, logDir, captureDir, reportDir string, statsStore store.RunStatsStore) error {
	runID := ulid.Make().String()
	started := time.Now()

	logger, closeLog, err := newLogger(logDir, runID)
	if err != nil {
		return fmt.Errorf("set up logger: %w", err)
	}
	defer closeLog()

	logger.Printf("dwm: starting run %s from %s", runID, paramFile)

	cfg, err := config.Load(paramFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	captureFolder, err := capture.New(captureDir)
	if err != nil {
		return fmt.Errorf("create capture folder: %w", err)
	}

	variantStore := memstore.NewVariantStore()

	d := pipeline.NewDriver(cfg, logger, variantStore, statsStore, runID)
	result, err := d.Run(ctx, captureFolder)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	if err := captureFolder.WriteLinkIndex("linkindex.csv", result.LinkIndex); err != nil {
		logger.Printf("dwm: capture link index: %v", err)
	}

	if err := writeReport(reportDir, runID, cfg.InputFileName, started, result); err != nil {
		logger.Printf("dwm: write report: %v", err)
	}

	logger.Printf("dwm: run %s complete: %d iterations, %d references, elapsed %s",
		runID, len(result.Iterations), len(result.RefDict), time.Since(started).Round(time.Millisecond))
	return nil
}

// newLogger returns a logger that writes to stdout and, if logDir is
// set, also to a per-run log file — the same dual console-and-logfile
// behavior the source driver used throughout its run.
func newLogger(logDir, runID string) (*log.Logger, func(), error) {
	if logDir == "" {
		return log.New(os.Stdout, "", log.LstdFlags), func() {}, nil
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, err
	}
	path := filepath.Join(logDir, fmt.Sprintf("dwm-%s.log", runID))
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	w := io.MultiWriter(os.Stdout, f)
	return log.New(w, "", log.LstdFlags), func() { f.Close() }, nil
}

func writeReport(reportDir, runID, inputFile string, started time.Time, result *pipeline.Result) error {
	if reportDir == "" {
		return report.Write(os.Stdout, runID, inputFile, started, result)
	}
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(reportDir, fmt.Sprintf("report-%s.txt", runID))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.Write(f, runID, inputFile, started, result)
}
