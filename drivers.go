package main

import (
	"keybench/bench"
	"keybench/cass"
	"keybench/config"
	"keybench/pg"
	"keybench/sqldb"

	"go.uber.org/zap"
)

type driver struct {
	connector    bench.Connector
	classify     bench.Classifier
	defaultQuery string
}

func pickDriver(cfg config.Config, log *zap.Logger) driver {
	conn := cfg.BenchConn()
	switch cfg.DB {
	case config.DriverCassandra:
		return driver{cass.NewConnector(conn, log), cass.Classify, cass.DefaultQuery}
	case config.DriverPostgres:
		return driver{pg.NewConnector(conn, log), pg.Classify, pg.DefaultQuery}
	default:
		return driver{sqldb.NewConnector(conn, log), sqldb.Classify, sqldb.DefaultQuery}
	}
}
