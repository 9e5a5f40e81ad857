package bench

import (
	"math"
	"net"
	"strconv"

	"github.com/google/uuid"
)

// DefaultCellSize is the capacity of a rendered cell, terminator slot included.
const DefaultCellSize = 1024

// ColumnValue is one cell of a result row. The set of implementations is
// closed; Decoder.RenderTo switches over all of them. Values that alias a
// driver buffer are only valid until the cursor advances.
type ColumnValue interface {
	columnValue()
}

type (
	// Text covers ascii, text and varchar columns.
	Text []byte
	// BigInt covers bigint and counter columns.
	BigInt int64
	// Timestamp is milliseconds since the Unix epoch.
	Timestamp int64
	Int       int32
	Float     float32
	Double    float64
	Bool      bool
	// UUID covers uuid and timeuuid columns.
	UUID [16]byte
	Inet net.IP
	// Bytes covers blob, varint and serialized list/map/set columns.
	Bytes []byte
	Null  struct{}
	// Unsupported marks a column kind the decoder does not render.
	Unsupported struct {
		TypeName string
	}
)

func (Text) columnValue()        {}
func (BigInt) columnValue()      {}
func (Timestamp) columnValue()   {}
func (Int) columnValue()         {}
func (Float) columnValue()       {}
func (Double) columnValue()      {}
func (Bool) columnValue()        {}
func (UUID) columnValue()        {}
func (Inet) columnValue()        {}
func (Bytes) columnValue()       {}
func (Null) columnValue()        {}
func (Unsupported) columnValue() {}

// CellBuffer is a fixed-capacity byte buffer. Its length never exceeds
// cap-1; the last slot mirrors the NUL terminator of a C string buffer.
type CellBuffer struct {
	buf []byte
	n   int
}

func NewCellBuffer(size int) *CellBuffer {
	if size < 1 {
		size = 1
	}
	return &CellBuffer{buf: make([]byte, size)}
}

func (b *CellBuffer) Cap() int { return len(b.buf) }

func (b *CellBuffer) Len() int { return b.n }

// Bytes returns the rendered cell. The slice is overwritten by the next render.
func (b *CellBuffer) Bytes() []byte { return b.buf[:b.n] }

func (b *CellBuffer) String() string { return string(b.buf[:b.n]) }

func (b *CellBuffer) Reset() { b.n = 0 }

// set copies p in when it fits, otherwise leaves the buffer empty.
func (b *CellBuffer) set(p []byte) bool {
	if len(p) > len(b.buf)-1 {
		b.n = 0
		return false
	}
	b.n = copy(b.buf, p)
	return true
}

// DecoderConfig sizes the decoder's cell buffer.
type DecoderConfig struct {
	CellSize int
}

// Decoder renders column values into their canonical text form.
type Decoder struct {
	cell      *CellBuffer
	scratch   [64]byte
	overflows int64
}

func NewDecoder(cfg DecoderConfig) *Decoder {
	if cfg.CellSize <= 0 {
		cfg.CellSize = DefaultCellSize
	}
	return &Decoder{cell: NewCellBuffer(cfg.CellSize)}
}

// Render renders v into the decoder's own buffer.
func (d *Decoder) Render(v ColumnValue) []byte {
	if !d.RenderTo(v, d.cell) {
		d.overflows++
	}
	return d.cell.Bytes()
}

// Overflows counts cells rendered empty because they did not fit.
func (d *Decoder) Overflows() int64 { return d.overflows }

// RenderTo writes the canonical form of v into dst. It reports false when
// the form did not fit, in which case dst is left empty. Unknown kinds,
// nulls and nil values render empty and report true.
func (d *Decoder) RenderTo(v ColumnValue, dst *CellBuffer) bool {
	s := d.scratch[:0]
	switch v := v.(type) {
	case Text:
		return dst.set(v)
	case Bytes:
		return dst.set(v)
	case BigInt:
		return dst.set(strconv.AppendInt(s, int64(v), 10))
	case Timestamp:
		return dst.set(strconv.AppendInt(s, int64(v), 10))
	case Int:
		return dst.set(strconv.AppendInt(s, int64(v), 10))
	case Float:
		return dst.set(appendFixed(s, float64(v)))
	case Double:
		return dst.set(appendFixed(s, float64(v)))
	case Bool:
		if v {
			return dst.set(append(s, '1'))
		}
		return dst.set(append(s, '0'))
	case UUID:
		return dst.set(append(s, uuid.UUID(v).String()...))
	case Inet:
		if len(v) == 0 {
			dst.Reset()
			return true
		}
		return dst.set(append(s, net.IP(v).String()...))
	default:
		dst.Reset()
		return true
	}
}

// appendFixed formats f the way printf("%f") does.
func appendFixed(dst []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		if math.Signbit(f) {
			return append(dst, "-nan"...)
		}
		return append(dst, "nan"...)
	case math.IsInf(f, 1):
		return append(dst, "inf"...)
	case math.IsInf(f, -1):
		return append(dst, "-inf"...)
	}
	return strconv.AppendFloat(dst, f, 'f', 6, 64)
}
