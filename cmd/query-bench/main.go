package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/playerdex/internal/querybench"
)

// Default configuration constants.
const (
	defaultRequests  = 10000
	defaultMaxK      = 50
	defaultWorkers   = 2 // multiplier for runtime.NumCPU()
	defaultTimeout   = 30 * time.Second
	defaultRunBudget = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		requests = flag.Int("requests", defaultRequests, "Number of queries to send")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		players  = flag.String("players", "players.csv", "Players CSV file to sample from")
		tags     = flag.String("tags", "tags.csv", "Tags CSV file to sample from")
		ratings  = flag.String("ratings", "rating.csv", "Ratings CSV file to sample from")
		maxK     = flag.Int("max-k", defaultMaxK, "Largest k used in top queries")
		seed     = flag.Uint64("seed", 0, "Sampler seed (0 derives one from the run id)")
		report   = flag.String("report", "", "Write a JSON report to this file")
		logFile  = flag.String("log", "", "Also write logs to this file")
		verbose  = flag.Bool("verbose", false, "Log every bad response")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		querybench.ShowHelp()
		return
	}

	if err := querybench.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunBudget)
	defer cancel()

	config := &querybench.Config{
		BaseURL:     *baseURL,
		Requests:    *requests,
		Workers:     *workers,
		Timeout:     *timeout,
		PlayersPath: *players,
		TagsPath:    *tags,
		RatingsPath: *ratings,
		MaxK:        *maxK,
		Seed:        *seed,
		ReportFile:  *report,
		Verbose:     *verbose,
	}

	if _, err := querybench.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Bench failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
