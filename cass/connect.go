// Package cass adapts gocql sessions to the benchmark's Session interface.
package cass

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"keybench/bench"

	"github.com/gocql/gocql"
	"go.uber.org/zap"
)

// DefaultQuery mirrors the per-key aggregate the harness was built around.
const DefaultQuery = "SELECT xml_doc_id_nbr, COUNT(*) FROM ks.tbl WHERE xml_doc_id_nbr = ? GROUP BY xml_doc_id_nbr"

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

// ClusterConfig builds the gocql cluster description for c.
func ClusterConfig(c bench.ConnConfig) (*gocql.ClusterConfig, error) {
	if len(c.Hosts) == 0 {
		return nil, errors.New("no contact points given")
	}
	cluster := gocql.NewCluster(c.Hosts...)
	if c.Port > 0 {
		cluster.Port = c.Port
	}
	if c.Database != "" {
		cluster.Keyspace = c.Database
	}
	if c.Consistency != "" {
		cl, err := gocql.ParseConsistencyWrapper(c.Consistency)
		if err != nil {
			return nil, fmt.Errorf("consistency: %w", err)
		}
		cluster.Consistency = cl
	}
	if c.Timeout > 0 {
		cluster.Timeout = c.Timeout
		cluster.ConnectTimeout = c.Timeout
	}
	if c.User != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{Username: c.User, Password: c.Password}
	}
	// one connection per host keeps requests strictly serial
	cluster.NumConns = 1
	return cluster, nil
}

func (c *Connector) Connect(ctx context.Context) (bench.Session, error) {
	cluster, err := ClusterConfig(c.cfg)
	if err != nil {
		return nil, &bench.ConnectionError{Driver: "cassandra", Err: err}
	}
	start := time.Now()
	s, err := cluster.CreateSession()
	if err != nil {
		return nil, &bench.ConnectionError{Driver: "cassandra", Err: err}
	}
	c.log.Debug("cassandra session established", zap.Strings("hosts", c.cfg.Hosts), zap.Duration("took", time.Since(start)))
	return &Session{s: s}, nil
}

// Classify extracts the protocol error code and message from a gocql error.
func Classify(err error) *bench.QueryError {
	var re gocql.RequestError
	if errors.As(err, &re) {
		return &bench.QueryError{
			Code:    "0x" + strconv.FormatInt(int64(re.Code()), 16),
			Message: re.Message(),
			Err:     err,
		}
	}
	return nil
}
