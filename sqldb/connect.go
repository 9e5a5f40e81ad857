// Package sqldb runs the benchmark over database/sql drivers. Every column
// is fetched as text, the way an ODBC client binding SQL_C_CHAR buffers sees it.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"keybench/bench"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"

	DefaultQuery = "SELECT MAX(col1) FROM test10 WHERE pkey = ?"
)

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

// DSN returns the data source name for c's driver.
func DSN(c bench.ConnConfig) (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch c.Driver {
	case DriverMySQL:
		host := "localhost"
		if len(c.Hosts) > 0 {
			host = c.Hosts[0]
		}
		port := c.Port
		if port == 0 {
			port = 3306
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=false&interpolateParams=true&timeout=30s",
			c.User, c.Password, host, port, c.Database), nil
	case DriverSQLite:
		if c.Database == "" {
			return "", errors.New("sqlite3 needs a database file or -dsn")
		}
		return c.Database, nil
	}
	return "", fmt.Errorf("unsupported driver %q", c.Driver)
}

func (c *Connector) Connect(ctx context.Context) (bench.Session, error) {
	dsn, err := DSN(c.cfg)
	if err != nil {
		return nil, &bench.ConnectionError{Driver: c.cfg.Driver, Err: err}
	}
	db, err := sql.Open(c.cfg.Driver, dsn)
	if err != nil {
		return nil, &bench.ConnectionError{Driver: c.cfg.Driver, Err: err}
	}
	// a single connection: queries are issued strictly one at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &bench.ConnectionError{Driver: c.cfg.Driver, Err: err}
	}
	c.log.Debug("database/sql pool ready", zap.String("driver", c.cfg.Driver))
	return &Session{db: db, driver: c.cfg.Driver}, nil
}

// Classify extracts the native error number and message from MySQL and
// SQLite errors.
func Classify(err error) *bench.QueryError {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return &bench.QueryError{Code: strconv.Itoa(int(myErr.Number)), Message: myErr.Message, Err: err}
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return &bench.QueryError{Code: strconv.Itoa(int(liteErr.Code)), Message: liteErr.Error(), Err: err}
	}
	return nil
}
