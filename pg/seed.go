package pg

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"keybench/workload"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Seed creates table if needed and copies the generated rows of p into it.
func (s *Session) Seed(ctx context.Context, table string, p workload.GenParams, log *zap.Logger) (int64, error) {
	if !tableName.MatchString(table) {
		return 0, fmt.Errorf("invalid table name %q", table)
	}
	if log == nil {
		log = zap.NewNop()
	}

	columns := seedColumns()
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (pkey BIGINT NOT NULL, ck BIGINT NOT NULL, %s BIGINT, PRIMARY KEY (pkey, ck))",
		table, strings.Join(columns[2:], " BIGINT, "))
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	var count int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("seed check: %w", err)
	}
	want := int64(p.NumKeys * p.RowsPerKey)
	if count >= want {
		log.Info("data already seeded", zap.String("table", table), zap.Int64("rows", count))
		return 0, nil
	}

	src, err := seedSource(p)
	if err != nil {
		return 0, err
	}
	log.Info("seeding", zap.String("table", table), zap.Int64("rows", want))
	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, src)
	if err != nil {
		return n, fmt.Errorf("copy rows: %w", err)
	}
	return n, nil
}

func seedColumns() []string {
	cols := []string{"pkey", "ck"}
	for i := 1; i <= workload.NumCols; i++ {
		cols = append(cols, fmt.Sprintf("col%d", i))
	}
	return cols
}

// seedSource streams the rows of p into COPY without materialising them.
func seedSource(p workload.GenParams) (pgx.CopyFromSource, error) {
	gen, err := workload.NewGenerator(p)
	if err != nil {
		return nil, err
	}
	var r workload.Row
	return pgx.CopyFromFunc(func() ([]any, error) {
		if !gen.Next(&r) {
			return nil, nil
		}
		row := make([]any, 0, 2+workload.NumCols)
		row = append(row, int64(r.PKey), int64(r.CK))
		for _, v := range r.Values {
			row = append(row, v)
		}
		return row, nil
	}), nil
}
