package cass

import (
	"context"
	"net"

	"keybench/bench"

	"github.com/gocql/gocql"
)

type Session struct {
	s *gocql.Session
}

// Execute issues query and blocks until the first page arrives. Errors are
// reported by the cursor's Close, which is where gocql surfaces them.
func (s *Session) Execute(ctx context.Context, query string, args ...any) (bench.Cursor, error) {
	q := s.s.Query(query, args...).WithContext(ctx)
	iter := q.Iter()
	cols := iter.Columns()
	c := &cursor{query: q, iter: iter, info: make([]gocql.TypeInfo, len(cols)), names: make([]string, len(cols))}
	for i, col := range cols {
		c.info[i] = col.TypeInfo
		c.names[i] = col.Name
	}
	c.cells = make([]rawCell, len(cols))
	c.dest = make([]any, len(cols))
	for i := range c.cells {
		c.dest[i] = &c.cells[i]
	}
	return c, nil
}

func (s *Session) Close() error {
	s.s.Close()
	return nil
}

type cursor struct {
	query *gocql.Query
	iter  *gocql.Iter
	info  []gocql.TypeInfo
	names []string
	cells []rawCell
	dest  []any
}

func (c *cursor) Columns() []string { return c.names }

func (c *cursor) Next() bool {
	if len(c.dest) == 0 {
		return false
	}
	return c.iter.Scan(c.dest...)
}

func (c *cursor) Width() int { return len(c.cells) }

func (c *cursor) Column(i int) bench.ColumnValue {
	return Decode(c.info[i], c.cells[i].data, c.cells[i].null)
}

func (c *cursor) Close() error {
	err := c.iter.Close()
	c.query.Release()
	return err
}

// rawCell captures the serialized bytes of one column without decoding.
type rawCell struct {
	data []byte
	null bool
}

func (r *rawCell) UnmarshalCQL(_ gocql.TypeInfo, data []byte) error {
	r.null = data == nil
	r.data = append(r.data[:0], data...)
	return nil
}

// Decode converts one serialized Cassandra value into a ColumnValue.
// Collection, blob and varint columns are passed through as raw bytes.
func Decode(info gocql.TypeInfo, data []byte, null bool) bench.ColumnValue {
	if null {
		return bench.Null{}
	}
	switch info.Type() {
	case gocql.TypeAscii, gocql.TypeText, gocql.TypeVarchar:
		return bench.Text(data)
	case gocql.TypeBigInt, gocql.TypeCounter:
		var v int64
		if gocql.Unmarshal(info, data, &v) != nil {
			return bench.Unsupported{TypeName: info.Type().String()}
		}
		return bench.BigInt(v)
	case gocql.TypeTimestamp:
		// milliseconds since epoch, not time.Time
		var v int64
		if gocql.Unmarshal(info, data, &v) != nil {
			return bench.Unsupported{TypeName: info.Type().String()}
		}
		return bench.Timestamp(v)
	case gocql.TypeInt:
		var v int32
		if gocql.Unmarshal(info, data, &v) != nil {
			return bench.Unsupported{TypeName: info.Type().String()}
		}
		return bench.Int(v)
	case gocql.TypeFloat:
		var v float32
		if gocql.Unmarshal(info, data, &v) != nil {
			return bench.Unsupported{TypeName: info.Type().String()}
		}
		return bench.Float(v)
	case gocql.TypeDouble:
		var v float64
		if gocql.Unmarshal(info, data, &v) != nil {
			return bench.Unsupported{TypeName: info.Type().String()}
		}
		return bench.Double(v)
	case gocql.TypeBoolean:
		var v bool
		if gocql.Unmarshal(info, data, &v) != nil {
			return bench.Unsupported{TypeName: info.Type().String()}
		}
		return bench.Bool(v)
	case gocql.TypeUUID, gocql.TypeTimeUUID:
		var v gocql.UUID
		if gocql.Unmarshal(info, data, &v) != nil {
			return bench.Unsupported{TypeName: info.Type().String()}
		}
		return bench.UUID(v)
	case gocql.TypeInet:
		var v net.IP
		if gocql.Unmarshal(info, data, &v) != nil {
			return bench.Unsupported{TypeName: info.Type().String()}
		}
		return bench.Inet(v)
	case gocql.TypeBlob, gocql.TypeVarint, gocql.TypeList, gocql.TypeMap, gocql.TypeSet:
		return bench.Bytes(data)
	default:
		return bench.Unsupported{TypeName: info.Type().String()}
	}
}
