package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"keybench/config"
)

const (
	exitOK = iota
	exitUsage
	exitConnect
	exitContract
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("keybench", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	configPath := cmd.String("config", "", "YAML config file; flags override its values")

	// Mode and driver
	mode := cmd.String("mode", "bench", "Mode: bench, query, gen, seed")
	db := cmd.String("db", "cassandra", "Database type: cassandra, postgres, mysql, sqlite3")

	// Connection
	hosts := cmd.String("hosts", "", "Comma-separated contact points or server host")
	port := cmd.Int("port", 0, "Server port (driver default when 0)")
	user := cmd.String("user", "", "Database user")
	pass := cmd.String("pass", "", "Database password")
	database := cmd.String("database", "", "Keyspace, database name or sqlite3 file")
	dsn := cmd.String("dsn", "", "Full connection string (overrides host/user/database)")
	consistency := cmd.String("consistency", "", "Cassandra consistency level")
	timeout := cmd.Duration("timeout", 0, "Connect and request timeout")

	// Benchmark parameters
	query := cmd.String("query", "", "Query text; bench mode binds the sampled key as its only parameter")
	iterations := cmd.Int("iterations", 0, "Number of queries to run (default 100000)")
	keys := cmd.Uint64("keys", 0, "Primary key range (default 1000)")
	rowsPerKey := cmd.Uint64("rows-per-key", 0, "Clustering rows per key (gen and seed)")
	var seed int32Value
	cmd.Var(&seed, "seed", "PRNG seed (32-bit signed)")
	warmup := cmd.Int("warmup", 0, "Warmup queries before measuring")
	runs := cmd.Int("runs", 0, "Number of runs; the median is reported")
	cooldown := cmd.Duration("cooldown", 0, "Pause between runs")
	cellSize := cmd.Int("cell-size", 0, "Rendered cell buffer size in bytes")
	offset := cmd.Uint64("offset", 0, "Key slice offset for gen and seed, in units of -keys")
	table := cmd.String("table", "", "Table to create and fill in seed mode")
	verbose := cmd.Bool("verbose", false, "Print rows to stdout and log at debug level")

	if err := cmd.Parse(args); err != nil {
		return exitUsage
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
	}

	cmd.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = config.Mode(*mode)
		case "db":
			cfg.DB = *db
		case "hosts":
			cfg.Conn.Hosts = config.SplitHosts(*hosts)
		case "port":
			cfg.Conn.Port = *port
		case "user":
			cfg.Conn.User = *user
		case "pass":
			cfg.Conn.Password = *pass
		case "database":
			cfg.Conn.Database = *database
		case "dsn":
			cfg.Conn.DSN = *dsn
		case "consistency":
			cfg.Conn.Consistency = *consistency
		case "timeout":
			cfg.Conn.Timeout = *timeout
		case "query":
			cfg.Benchmark.Query = *query
		case "iterations":
			cfg.Benchmark.Iterations = *iterations
		case "keys":
			cfg.Benchmark.Keys = *keys
		case "rows-per-key":
			cfg.Benchmark.RowsPerKey = *rowsPerKey
		case "seed":
			cfg.Benchmark.Seed = int32(seed)
		case "warmup":
			cfg.Benchmark.Warmup = *warmup
		case "runs":
			cfg.Benchmark.Runs = *runs
		case "cooldown":
			cfg.Benchmark.Cooldown = *cooldown
		case "cell-size":
			cfg.Benchmark.CellSize = *cellSize
		case "offset":
			cfg.Gen.Offset = *offset
		case "table":
			cfg.Gen.Table = *table
		case "verbose":
			cfg.Verbose = *verbose
		}
	})

	// <contact_points> <pkey range> <ccol range> <rand seed>
	if cmd.NArg() == 4 {
		if err := applyPositional(&cfg, cmd.Args()); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
	} else if cmd.NArg() != 0 {
		usage(stderr)
		return exitUsage
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		usage(stderr)
		return exitUsage
	}

	log := newLogger(stderr, cfg.Verbose)
	defer log.Sync()

	return execute(cfg, stdout, stderr, log)
}

// int32Value parses a flag with the same bounds as the positional seed.
type int32Value int32

func (v *int32Value) String() string { return strconv.FormatInt(int64(*v), 10) }

func (v *int32Value) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return err
	}
	*v = int32Value(n)
	return nil
}

func applyPositional(cfg *config.Config, args []string) error {
	if cfg.DB == config.DriverCassandra {
		cfg.Conn.Hosts = config.SplitHosts(args[0])
	} else {
		cfg.Conn.DSN = args[0]
	}
	numKeys, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("pkey range: %w", err)
	}
	rowsPerKey, err := strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("ccol range: %w", err)
	}
	seed, err := strconv.ParseInt(args[3], 10, 32)
	if err != nil {
		return fmt.Errorf("rand seed: %w", err)
	}
	cfg.Benchmark.Keys = numKeys
	cfg.Benchmark.RowsPerKey = rowsPerKey
	cfg.Benchmark.Seed = int32(seed)
	return nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: keybench [flags] [<contact_points|dsn> <pkey range> <ccol range> <rand seed>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Modes:")
	fmt.Fprintln(w, "  -mode bench    Issue -iterations keyed queries and report elapsed time (default)")
	fmt.Fprintln(w, "  -mode query    Run -query once and print the result as a table")
	fmt.Fprintln(w, "  -mode gen      Write the synthetic row dump as CSV to stdout")
	fmt.Fprintln(w, "  -mode seed     Create -table and load the row dump (postgres, mysql, sqlite3)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  keybench -db cassandra -hosts 10.0.0.1,10.0.0.2 -keys 100000 -seed 42")
	fmt.Fprintln(w, "  keybench -db postgres -hosts db1 -user bench -database otest -iterations 10000")
	fmt.Fprintln(w, "  keybench -mode gen -keys 1000 -rows-per-key 100 -seed 42 > rows.csv")
}
