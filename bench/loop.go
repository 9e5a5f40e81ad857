package bench

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"go.uber.org/zap"
)

// Loop issues a fixed number of sampled-key queries over one session.
type Loop struct {
	session  Session
	params   BenchParams
	classify Classifier
	out      io.Writer
	log      *zap.Logger
}

func NewLoop(session Session, params BenchParams, classify Classifier, out io.Writer, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Loop{session: session, params: params, classify: classify, out: out, log: log}
}

// Run executes params.Iterations queries, keys drawn from a sampler seeded
// with params.Seed. Query failures are logged and counted; only contract
// violations stop the run early.
func (l *Loop) Run(ctx context.Context, label string) (Summary, error) {
	p := l.params
	// keys are bound as signed 64-bit integers
	if p.KeyRange > math.MaxInt64 {
		return Summary{Label: label}, fmt.Errorf("key range %d exceeds %d: %w", p.KeyRange, int64(math.MaxInt64), ErrInvalidRange)
	}
	sampler := NewKeySampler(p.Seed)

	if p.Warmup > 0 {
		if err := l.warmup(ctx, sampler.Clone()); err != nil {
			return Summary{Label: label}, err
		}
	}

	drainer := NewDrainer(DrainerConfig{
		Emit:    p.Verbose,
		Out:     l.out,
		Decoder: DecoderConfig{CellSize: p.CellSize},
	})
	exec := NewExecutor(l.session, p.Query, drainer, l.classify)
	summary := Summary{Label: label}

	start := time.Now()
	for i := 0; i < p.Iterations; i++ {
		key, err := sampler.Next(p.KeyRange)
		if err != nil {
			return l.finish(summary, drainer, start), err
		}
		out, err := exec.Execute(ctx, int64(key))
		summary.Iterations++
		if err != nil {
			l.log.Error("contract violation", zap.Int("iteration", i), zap.Uint64("key", key), zap.Error(err))
			return l.finish(summary, drainer, start), fmt.Errorf("iteration %d: %w", i, err)
		}
		if out.Failed() {
			summary.Failures++
			l.log.Warn("query failed",
				zap.Int("iteration", i),
				zap.Uint64("key", key),
				zap.String("code", out.Err.Code),
				zap.String("message", out.Err.Message))
		}
		summary.Rows += out.Rows
		drainer.Printf("iteration %d: numResults = %d\n", i, out.Rows)
	}
	return l.finish(summary, drainer, start), nil
}

func (l *Loop) finish(s Summary, drainer *Drainer, start time.Time) Summary {
	s.Elapsed = time.Since(start)
	if err := drainer.Flush(); err != nil {
		l.log.Warn("flush output", zap.Error(err))
	}
	s.Overflows = drainer.Overflows()
	if s.Elapsed > 0 {
		s.QPS = float64(s.Successes()) / s.Elapsed.Seconds()
	}
	return s
}

func (l *Loop) warmup(ctx context.Context, sampler *KeySampler) error {
	exec := NewExecutor(l.session, l.params.Query, NewDrainer(DrainerConfig{}), l.classify)
	l.log.Info("warming up", zap.Int("queries", l.params.Warmup))
	for i := 0; i < l.params.Warmup; i++ {
		key, err := sampler.Next(l.params.KeyRange)
		if err != nil {
			return err
		}
		if _, err := exec.Execute(ctx, int64(key)); err != nil {
			return fmt.Errorf("warmup %d: %w", i, err)
		}
	}
	return nil
}
