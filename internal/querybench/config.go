package querybench

import (
	"net/url"
	"time"
)

// Config holds configuration for a bench run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Requests    int           // Number of queries to fire
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	PlayersPath string        // CSV files queries are sampled from
	TagsPath    string
	RatingsPath string
	MaxK        int    // Upper bound for k in top queries
	Seed        uint64 // Seed of the query sampler; 0 picks one from the run id
	ReportFile  string // Optional JSON report path
	Verbose     bool   // Log every violation as it is found
}

// Kind names a query endpoint.
type Kind string

// Query kinds.
const (
	KindPlayer Kind = "player"
	KindPrefix Kind = "prefix"
	KindTags   Kind = "tags"
	KindTop    Kind = "top"
	KindUser   Kind = "user"
)

// Kinds lists every query kind in the order they are reported.
var Kinds = []Kind{KindPlayer, KindPrefix, KindTags, KindTop, KindUser}

// Query is one request of a bench run together with what its response must
// satisfy.
type Query struct {
	Kind   Kind
	Path   string
	Params url.Values

	ID       string   // player or user id
	Prefix   string   // folded name prefix
	Tags     []string // tags, all must match
	K        int      // top size
	Position string   // top position
}

// Outcome classifies a response.
type Outcome string

// Response outcomes.
const (
	OutcomeOK        Outcome = "ok"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeFailed    Outcome = "failed"
	OutcomeViolation Outcome = "violation"
)

// KindReport summarizes the latencies of one query kind.
type KindReport struct {
	Count    int     `json:"count"`
	NotFound int     `json:"not_found"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	MaxMs    float64 `json:"max_ms"`
}

// Report holds the statistics of a bench run.
type Report struct {
	RunID      string              `json:"run_id"`
	Requests   int                 `json:"requests"`
	OK         int                 `json:"ok"`
	NotFound   int                 `json:"not_found"`
	Failed     int                 `json:"failed"`
	Violations int                 `json:"violations"`
	Seconds    float64             `json:"seconds"`
	QPS        float64             `json:"qps"`
	PerKind    map[Kind]KindReport `json:"per_kind"`
	Samples    []string            `json:"violation_samples,omitempty"`
	StartTime  time.Time           `json:"start_time"`
	EndTime    time.Time           `json:"end_time"`
}
