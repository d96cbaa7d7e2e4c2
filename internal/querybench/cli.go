package querybench

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/playerdex/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the logger on stdout, or on stdout and logFile
// when one is given.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.InitWithFormat("text", w); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the query bench tool.
func ShowHelp() {
	os.Stdout.WriteString(`playerdex query bench
=====================

Fires concurrent queries sampled from the catalog CSV files at a running
playerdex service and verifies the ordering of every response.

Usage:
  go run ./cmd/query-bench [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -requests int
        Number of queries to send (default 10000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -players, -tags, -ratings string
        CSV files to sample queries from (default players.csv, tags.csv, rating.csv)
  -max-k int
        Largest k used in top queries (default 50)
  -seed uint
        Sampler seed; 0 derives one from the run id
  -report string
        Write a JSON report to this file
  -log string
        Also write logs to this file
  -verbose
        Log every bad response
  -help
        Show this help message

Examples:
  go run ./cmd/query-bench -requests 50000 -workers 16
  go run ./cmd/query-bench -seed 42 -report out/bench.json
`)
}
