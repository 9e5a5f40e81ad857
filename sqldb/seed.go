package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"keybench/workload"

	"go.uber.org/zap"
)

const seedBatchSize = 500

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Seed loads the generated workload slice p into table, creating it if
// needed. Rows already present are left alone when the table holds at least
// as many rows as p describes.
func (s *Session) Seed(ctx context.Context, table string, p workload.GenParams, log *zap.Logger) (int64, error) {
	return SeedData(ctx, s.db, table, p, log)
}

func SeedData(ctx context.Context, db *sql.DB, table string, p workload.GenParams, log *zap.Logger) (int64, error) {
	if !tableName.MatchString(table) {
		return 0, fmt.Errorf("invalid table name %q", table)
	}
	if log == nil {
		log = zap.NewNop()
	}

	cols := make([]string, workload.NumCols)
	for i := range cols {
		cols[i] = fmt.Sprintf("col%d", i+1)
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (pkey BIGINT NOT NULL, ck BIGINT NOT NULL, %s BIGINT, PRIMARY KEY (pkey, ck))",
		table, strings.Join(cols, " BIGINT, "))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	want := int64(p.NumKeys * p.RowsPerKey)
	var count int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("seed check: %w", err)
	}
	if count >= want {
		log.Info("data already seeded", zap.String("table", table), zap.Int64("rows", count))
		return 0, nil
	}

	log.Info("seeding", zap.String("table", table), zap.Int64("rows", want))
	prefix := fmt.Sprintf("INSERT INTO %s (pkey, ck, %s) VALUES ", table, strings.Join(cols, ", "))
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", 2+workload.NumCols), ",") + ")"

	var (
		inserted int64
		batch    int
		query    strings.Builder
		vals     = make([]any, 0, seedBatchSize*(2+workload.NumCols))
	)
	flush := func() error {
		if batch == 0 {
			return nil
		}
		if _, err := db.ExecContext(ctx, query.String(), vals...); err != nil {
			return fmt.Errorf("seed batch at %d: %w", inserted, err)
		}
		inserted += int64(batch)
		batch = 0
		vals = vals[:0]
		query.Reset()
		return nil
	}

	err := workload.Each(p, func(r workload.Row) error {
		if batch == 0 {
			query.WriteString(prefix)
		} else {
			query.WriteByte(',')
		}
		query.WriteString(placeholder)
		vals = append(vals, int64(r.PKey), int64(r.CK))
		for _, v := range r.Values {
			vals = append(vals, v)
		}
		batch++
		if batch == seedBatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return inserted, err
	}
	if err := flush(); err != nil {
		return inserted, err
	}
	return inserted, nil
}
