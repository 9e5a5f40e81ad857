package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keybench/bench"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const DefaultQuery = "SELECT pkey, COUNT(*) FROM test10 WHERE pkey = $1 GROUP BY pkey"

type Connector struct {
	cfg bench.ConnConfig
	log *zap.Logger
}

func NewConnector(c bench.ConnConfig, log *zap.Logger) *Connector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Connector{cfg: c, log: log}
}

// DSN renders c as a postgres URL unless an explicit DSN was given.
func DSN(c bench.ConnConfig, sslmode string) string {
	if c.DSN != "" {
		return c.DSN
	}
	if sslmode == "" {
		sslmode = "disable"
	}
	host := "localhost"
	if len(c.Hosts) > 0 {
		host = c.Hosts[0]
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, host, port, c.Database, sslmode)
}

func (c *Connector) Connect(ctx context.Context) (bench.Session, error) {
	config, err := pgxpool.ParseConfig(DSN(c.cfg, "disable"))
	if err != nil {
		return nil, &bench.ConnectionError{Driver: "postgres", Err: err}
	}
	// a single connection: queries are issued strictly one at a time
	config.MaxConns = 1
	config.MinConns = 1

	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, &bench.ConnectionError{Driver: "postgres", Err: err}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &bench.ConnectionError{Driver: "postgres", Err: err}
	}
	c.log.Debug("postgres pool ready", zap.String("host", config.ConnConfig.Host), zap.String("database", config.ConnConfig.Database))
	return &Session{pool: pool}, nil
}

// Classify extracts SQLSTATE and message from a server error.
func Classify(err error) *bench.QueryError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &bench.QueryError{Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}
	return nil
}
