// Package config holds the benchmark configuration, loaded from an optional
// YAML file and overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"keybench/bench"

	"gopkg.in/yaml.v3"
)

// Mode selects what the binary does.
type Mode string

const (
	ModeBench Mode = "bench"
	ModeQuery Mode = "query"
	ModeGen   Mode = "gen"
	ModeSeed  Mode = "seed"
)

const (
	DriverCassandra = "cassandra"
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
	DriverSQLite    = "sqlite3"
)

type Config struct {
	Mode Mode `yaml:"mode"`

	// DB selects the driver: cassandra, postgres, mysql or sqlite3
	DB string `yaml:"db"`

	Conn      ConnConfig      `yaml:"conn"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Gen       GenConfig       `yaml:"gen"`

	// Verbose prints rows to stdout and enables debug logging
	Verbose bool `yaml:"verbose"`
}

type ConnConfig struct {
	// Hosts are contact points (cassandra) or the server host (sql drivers)
	Hosts       []string      `yaml:"hosts"`
	Port        int           `yaml:"port"`
	User        string        `yaml:"user"`
	Password    string        `yaml:"password"`
	Database    string        `yaml:"database"` // keyspace for cassandra, file for sqlite3
	DSN         string        `yaml:"dsn"`
	Consistency string        `yaml:"consistency"`
	Timeout     time.Duration `yaml:"timeout"`
}

type BenchmarkConfig struct {
	Query      string        `yaml:"query"`
	Iterations int           `yaml:"iterations"`
	Keys       uint64        `yaml:"keys"`
	RowsPerKey uint64        `yaml:"rows_per_key"`
	Seed       int32         `yaml:"seed"`
	Warmup     int           `yaml:"warmup"`
	Runs       int           `yaml:"runs"`
	Cooldown   time.Duration `yaml:"cooldown"`
	CellSize   int           `yaml:"cell_size"`
}

type GenConfig struct {
	Offset uint64 `yaml:"offset"`
	Table  string `yaml:"table"`
}

func Default() Config {
	return Config{
		Mode: ModeBench,
		DB:   DriverCassandra,
		Conn: ConnConfig{
			Timeout: 10 * time.Second,
		},
		Benchmark: BenchmarkConfig{
			Iterations: 100000,
			Keys:       1000,
			RowsPerKey: 1,
			Runs:       1,
			Cooldown:   3 * time.Second,
			CellSize:   bench.DefaultCellSize,
		},
		Gen: GenConfig{
			Table: "test10",
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeBench, ModeQuery, ModeGen, ModeSeed:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Mode == ModeGen {
		if c.Benchmark.Keys == 0 {
			return errors.New("keys must be greater than zero")
		}
		return nil
	}

	switch c.DB {
	case DriverCassandra, DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unknown db %q", c.DB)
	}
	if c.DB == DriverCassandra && len(c.Conn.Hosts) == 0 {
		return errors.New("cassandra needs at least one contact point")
	}
	if c.Mode == ModeSeed && c.DB == DriverCassandra {
		return fmt.Errorf("seed mode is not supported for %s", c.DB)
	}
	if c.Mode == ModeQuery && strings.TrimSpace(c.Benchmark.Query) == "" {
		return errors.New("query mode needs a query")
	}
	if c.Mode == ModeBench {
		if c.Benchmark.Keys == 0 {
			return errors.New("keys must be greater than zero")
		}
		if c.Benchmark.Keys > math.MaxInt64 {
			return fmt.Errorf("keys must not exceed %d", int64(math.MaxInt64))
		}
		if c.Benchmark.Iterations < 0 {
			return errors.New("iterations must not be negative")
		}
	}
	if c.Benchmark.CellSize < 0 {
		return errors.New("cell size must not be negative")
	}
	return nil
}

func (c Config) BenchConn() bench.ConnConfig {
	return bench.ConnConfig{
		Driver:      c.DB,
		Hosts:       c.Conn.Hosts,
		Port:        c.Conn.Port,
		User:        c.Conn.User,
		Password:    c.Conn.Password,
		Database:    c.Conn.Database,
		DSN:         c.Conn.DSN,
		Consistency: c.Conn.Consistency,
		Timeout:     c.Conn.Timeout,
	}
}

func (c Config) Params() bench.BenchParams {
	b := c.Benchmark
	return bench.BenchParams{
		Query:      b.Query,
		Iterations: b.Iterations,
		KeyRange:   b.Keys,
		RowsPerKey: b.RowsPerKey,
		Seed:       b.Seed,
		Warmup:     b.Warmup,
		Runs:       b.Runs,
		Cooldown:   b.Cooldown,
		Verbose:    c.Verbose,
		CellSize:   b.CellSize,
	}
}

// SplitHosts parses a comma-separated contact point list.
func SplitHosts(s string) []string {
	var hosts []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
