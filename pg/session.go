package pg

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"keybench/bench"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Session struct {
	pool *pgxpool.Pool
}

func (s *Session) Execute(ctx context.Context, query string, args ...any) (bench.Cursor, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return &cursor{rows: rows, names: names}, nil
}

func (s *Session) Close() error {
	s.pool.Close()
	return nil
}

type cursor struct {
	rows    pgx.Rows
	names   []string
	raw     [][]byte
	values  []any
	decoded bool
	err     error
}

func (c *cursor) Columns() []string { return c.names }

// Next only advances; cells are decoded on the first Column call of a row.
func (c *cursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}
	c.raw = c.rows.RawValues()
	c.values, c.decoded = c.values[:0], false
	return true
}

func (c *cursor) Width() int { return len(c.raw) }

func (c *cursor) Column(i int) bench.ColumnValue {
	if !c.decoded {
		c.decoded = true
		if c.values, c.err = c.rows.Values(); c.err != nil {
			c.values = nil
		}
	}
	if i >= len(c.values) {
		return bench.Unsupported{TypeName: "undecodable"}
	}
	return Convert(c.values[i], c.raw[i])
}

func (c *cursor) Close() error {
	c.rows.Close()
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

// RowsAffected reports the count from the command tag of a closed cursor.
func (c *cursor) RowsAffected(context.Context) (int64, error) {
	return c.rows.CommandTag().RowsAffected(), nil
}

// Convert maps a value decoded by pgx onto a ColumnValue. Arrays and
// composite values are passed through as their raw wire bytes.
func Convert(v any, raw []byte) bench.ColumnValue {
	switch v := v.(type) {
	case nil:
		return bench.Null{}
	case string:
		return bench.Text(v)
	case int64:
		return bench.BigInt(v)
	case int32:
		return bench.Int(v)
	case int16:
		return bench.Int(v)
	case float32:
		return bench.Float(v)
	case float64:
		return bench.Double(v)
	case bool:
		return bench.Bool(v)
	case [16]byte:
		return bench.UUID(v)
	case time.Time:
		return bench.Timestamp(v.UnixMilli())
	case netip.Prefix:
		return bench.Inet(net.IP(v.Addr().AsSlice()))
	case netip.Addr:
		return bench.Inet(net.IP(v.AsSlice()))
	case []byte:
		return bench.Bytes(v)
	case []any, map[string]any:
		return bench.Bytes(raw)
	default:
		return bench.Unsupported{TypeName: fmt.Sprintf("%T", v)}
	}
}
