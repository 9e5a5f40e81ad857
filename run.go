package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"keybench/bench"
	"keybench/config"
	"keybench/workload"

	"go.uber.org/zap"
)

func execute(cfg config.Config, stdout, stderr io.Writer, log *zap.Logger) int {
	ctx := context.Background()

	if cfg.Mode == config.ModeGen {
		n, err := workload.Generate(stdout, genParams(cfg))
		if err != nil {
			log.Error("generate", zap.Error(err))
			return exitUsage
		}
		log.Debug("generated rows", zap.Int64("rows", n))
		return exitOK
	}

	drv := pickDriver(cfg, log)
	fmt.Fprintf(stderr, "[1/2] Connecting to %s...\n", cfg.DB)
	session, err := drv.connector.Connect(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "  ✗ Connection failed: %v\n", err)
		return exitConnect
	}
	defer session.Close()
	fmt.Fprintln(stderr, "  ✓ Connected")

	switch cfg.Mode {
	case config.ModeSeed:
		return seed(ctx, cfg, session, stderr, log)
	case config.ModeQuery:
		return adhoc(ctx, cfg, session, drv, stdout, stderr)
	default:
		return benchmark(ctx, cfg, session, drv, stdout, stderr, log)
	}
}

func benchmark(ctx context.Context, cfg config.Config, session bench.Session, drv driver, stdout, stderr io.Writer, log *zap.Logger) int {
	params := cfg.Params()
	if params.Query == "" {
		params.Query = drv.defaultQuery
	}

	fmt.Fprintf(stderr, "\n[2/2] Running %d queries (keys=%d seed=%d)...\n", params.Iterations, params.KeyRange, params.Seed)
	log.Debug("benchmark query", zap.String("query", params.Query))

	label := fmt.Sprintf("%s keyed lookup", cfg.DB)
	loop := bench.NewLoop(session, params, drv.classify, stdout, log)
	summary, err := bench.RunMultiple(stderr, params.Runs, params.Cooldown, label, func(int) (bench.Summary, error) {
		return loop.Run(ctx, label)
	})
	if err != nil {
		fmt.Fprintf(stderr, "  ✗ Aborted: %v\n", err)
		if errors.Is(err, bench.ErrColumnMismatch) || errors.Is(err, bench.ErrInvalidRange) {
			return exitContract
		}
		return exitUsage
	}

	bench.PrintStats(stderr, summary)
	bench.PrintElapsed(stderr, summary)
	return exitOK
}

// adhoc runs one unparameterised query and prints its rows as a table.
func adhoc(ctx context.Context, cfg config.Config, session bench.Session, drv driver, stdout, stderr io.Writer) int {
	fmt.Fprintln(stderr, "\n[2/2] Executing query...")
	cur, err := session.Execute(ctx, cfg.Benchmark.Query)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", bench.AsQueryError(err, drv.classify))
		return exitOK
	}
	if len(cur.Columns()) == 0 {
		return affected(ctx, cur, drv, stdout, stderr)
	}
	_, err = bench.PrintTable(stdout, cur, bench.DecoderConfig{CellSize: cfg.Benchmark.CellSize})
	cerr := cur.Close()
	if err != nil {
		fmt.Fprintf(stderr, "  ✗ Aborted: %v\n", err)
		return exitContract
	}
	if cerr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", bench.AsQueryError(cerr, drv.classify))
	}
	fmt.Fprintln(stderr, "\nDisconnected.")
	return exitOK
}

// affected finishes a statement without a result set and prints how many
// rows it changed.
func affected(ctx context.Context, cur bench.Cursor, drv driver, stdout, stderr io.Writer) int {
	for cur.Next() {
	}
	if err := cur.Close(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", bench.AsQueryError(err, drv.classify))
		return exitOK
	}
	rc, ok := cur.(bench.RowCounter)
	if !ok {
		fmt.Fprintln(stdout, "numReceived = 0")
		return exitOK
	}
	n, err := rc.RowsAffected(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", bench.AsQueryError(err, drv.classify))
		return exitOK
	}
	fmt.Fprintf(stdout, "%d rows affected\n", n)
	fmt.Fprintln(stderr, "\nDisconnected.")
	return exitOK
}

type seeder interface {
	Seed(ctx context.Context, table string, p workload.GenParams, log *zap.Logger) (int64, error)
}

func seed(ctx context.Context, cfg config.Config, session bench.Session, stderr io.Writer, log *zap.Logger) int {
	s, ok := session.(seeder)
	if !ok {
		fmt.Fprintf(stderr, "Error: seed mode is not supported for %s\n", cfg.DB)
		return exitUsage
	}
	fmt.Fprintf(stderr, "\n[2/2] Seeding %s...\n", cfg.Gen.Table)
	n, err := s.Seed(ctx, cfg.Gen.Table, genParams(cfg), log)
	if err != nil {
		fmt.Fprintf(stderr, "  ✗ Seed failed: %v\n", err)
		return exitUsage
	}
	fmt.Fprintf(stderr, "  ✓ Data ready (%d rows inserted)\n", n)
	return exitOK
}

func genParams(cfg config.Config) workload.GenParams {
	return workload.GenParams{
		NumKeys:    cfg.Benchmark.Keys,
		RowsPerKey: cfg.Benchmark.RowsPerKey,
		Offset:     cfg.Gen.Offset,
		Seed:       cfg.Benchmark.Seed,
	}
}
