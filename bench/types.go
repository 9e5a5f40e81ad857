package bench

import "time"

type ConnConfig struct {
	Driver      string
	Hosts       []string
	Port        int
	User        string
	Password    string
	Database    string
	DSN         string
	Consistency string
	Timeout     time.Duration
}

type BenchParams struct {
	Query      string
	Iterations int
	KeyRange   uint64
	RowsPerKey uint64 // only read by the workload generator
	Seed       int32
	Warmup     int           // queries issued from a cloned sampler before measuring
	Runs       int           // number of runs for median (0 or 1 = single run)
	Cooldown   time.Duration // pause between runs
	Verbose    bool          // print rows and per-iteration counts to Out
	CellSize   int
}

// Outcome is the result of a single iteration.
type Outcome struct {
	Rows int64
	Err  *QueryError
}

func (o Outcome) Failed() bool { return o.Err != nil }

// Summary is the final accounting of one benchmark run.
type Summary struct {
	Label      string
	Iterations int
	Failures   int
	Rows       int64
	Overflows  int64
	Elapsed    time.Duration
	QPS        float64
}

func (s Summary) Successes() int { return s.Iterations - s.Failures }
