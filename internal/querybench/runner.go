// Package querybench fires sampled queries at a running playerdex service
// and checks every response against the ordering rules of its endpoint.
package querybench

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/playerdex/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// File permission constants.
const (
	directoryPermission = 0750
	reportPermission    = 0600
)

// collector aggregates results from concurrent workers.
type collector struct {
	mu         sync.Mutex
	total      int
	done       int
	counts     map[Outcome]int
	latencies  map[Kind][]time.Duration
	notFound   map[Kind]int
	samples    []string
	lastReport time.Time
	verbose    bool
	log        logger.Logger
}

func newCollector(total int, verbose bool, log logger.Logger) *collector {
	return &collector{
		total:     total,
		counts:    make(map[Outcome]int),
		latencies: make(map[Kind][]time.Duration),
		notFound:  make(map[Kind]int),
		verbose:   verbose,
		log:       log,
	}
}

func (c *collector) add(ctx context.Context, r result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.done++
	c.counts[r.outcome]++
	c.latencies[r.kind] = append(c.latencies[r.kind], r.latency)
	if r.outcome == OutcomeNotFound {
		c.notFound[r.kind]++
	}
	for _, v := range r.violations {
		if len(c.samples) < maxViolationLogs {
			c.samples = append(c.samples, v)
		}
		if c.verbose {
			c.log.Warn(ctx, "bad response", logger.String("detail", v))
		}
	}

	if time.Since(c.lastReport) >= ProgressInterval {
		c.lastReport = time.Now()
		c.log.Info(ctx, "progress",
			logger.Int("done", c.done),
			logger.Int("total", c.total),
			logger.Int("failed", c.counts[OutcomeFailed]),
			logger.Int("violations", c.counts[OutcomeViolation]))
	}
}

func (c *collector) report(runID string, start, end time.Time) *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	rep := &Report{
		RunID:      runID,
		Requests:   c.done,
		OK:         c.counts[OutcomeOK],
		NotFound:   c.counts[OutcomeNotFound],
		Failed:     c.counts[OutcomeFailed],
		Violations: c.counts[OutcomeViolation],
		Seconds:    end.Sub(start).Seconds(),
		PerKind:    make(map[Kind]KindReport, len(c.latencies)),
		Samples:    slices.Clone(c.samples),
		StartTime:  start,
		EndTime:    end,
	}
	if rep.Seconds > 0 {
		rep.QPS = float64(rep.Requests) / rep.Seconds
	}
	for kind, ls := range c.latencies {
		slices.Sort(ls)
		rep.PerKind[kind] = KindReport{
			Count:    len(ls),
			NotFound: c.notFound[kind],
			P50Ms:    millis(percentile(ls, 0.50)),
			P95Ms:    millis(percentile(ls, 0.95)),
			MaxMs:    millis(ls[len(ls)-1]),
		}
	}
	return rep
}

// percentile returns the nearest-rank percentile of sorted.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	return sorted[max(idx, 0)]
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// Run executes a complete bench: health check, sampling, concurrent
// queries and verification. It returns ErrViolations when any response
// broke an invariant.
func Run(ctx context.Context, config *Config) (*Report, error) {
	log := logger.Get()
	runID := uuid.NewString()
	seed := config.Seed
	if seed == 0 {
		id := uuid.MustParse(runID)
		for _, b := range id[:8] {
			seed = seed<<8 | uint64(b)
		}
	}

	log.Info(ctx, "starting playerdex query bench",
		logger.String("runID", runID),
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.Requests),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("seed", strconv.FormatUint(seed, 10)))

	client := newHTTPClient(config)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Sample queries from the CSV files
	pool, err := LoadPool(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("sampling failed: %w", err)
	}
	queries, err := BuildQueries(pool, config.Requests, config.MaxK, seed)
	if err != nil {
		return nil, fmt.Errorf("query generation failed: %w", err)
	}

	// Step 3: Fire queries concurrently
	start := time.Now()
	c := newCollector(len(queries), config.Verbose, log)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Workers, 1))
	for i, q := range queries {
		requestID := runID + "-" + strconv.Itoa(i)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.add(gctx, execute(gctx, client, requestID, q))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("bench interrupted: %w", err)
	}

	// Step 4: Summarize
	rep := c.report(runID, start, time.Now())
	displayFinalStats(ctx, log, rep)

	if config.ReportFile != "" {
		if err := saveReport(config.ReportFile, rep); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	if rep.Violations > 0 {
		return rep, fmt.Errorf("%w: %d of %d", ErrViolations, rep.Violations, rep.Requests)
	}
	log.Info(ctx, "bench completed successfully")
	return rep, nil
}

// saveReport writes rep as indented JSON.
func saveReport(filename string, rep *Report) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// displayFinalStats logs the run summary and per-kind latencies.
func displayFinalStats(ctx context.Context, log logger.Logger, rep *Report) {
	var successRate float64
	if rep.Requests > 0 {
		successRate = float64(rep.OK+rep.NotFound) / float64(rep.Requests) * PercentageMultiplier
	}
	log.Info(ctx, "final statistics",
		logger.String("runID", rep.RunID),
		logger.Int("requests", rep.Requests),
		logger.Int("ok", rep.OK),
		logger.Int("notFound", rep.NotFound),
		logger.Int("failed", rep.Failed),
		logger.Int("violations", rep.Violations),
		logger.Float64("seconds", rep.Seconds),
		logger.Float64("qps", rep.QPS),
		logger.Float64("successRate", successRate))
	for _, kind := range Kinds {
		kr, ok := rep.PerKind[kind]
		if !ok {
			continue
		}
		log.Info(ctx, "latency",
			logger.String("kind", string(kind)),
			logger.Int("count", kr.Count),
			logger.Int("notFound", kr.NotFound),
			logger.Float64("p50Ms", kr.P50Ms),
			logger.Float64("p95Ms", kr.P95Ms),
			logger.Float64("maxMs", kr.MaxMs))
	}
	for _, s := range rep.Samples {
		log.Warn(ctx, "violation", logger.String("detail", s))
	}
}
