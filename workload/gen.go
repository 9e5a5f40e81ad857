// Package workload produces the synthetic row dump the benchmark queries.
package workload

import (
	"bufio"
	"errors"
	"io"
	"strconv"

	"keybench/bench"
)

const (
	NumCols  = 8
	ColRange = 1000000
)

var ErrNoKeys = errors.New("number of keys must be greater than zero")

// GenParams describes one slice of the key space. Keys cover
// [Offset*NumKeys, Offset*NumKeys+NumKeys).
type GenParams struct {
	NumKeys    uint64
	RowsPerKey uint64
	Offset     uint64
	Seed       int32
}

// Row is one generated record: partition key, clustering key and values.
type Row struct {
	PKey   uint64
	CK     uint64
	Values [NumCols]int64
}

// Generator yields the rows of p one at a time, so callers can stream a
// slice of any size.
type Generator struct {
	rng      *bench.LCG48
	key, end uint64
	ck       uint64
	perKey   uint64
}

func NewGenerator(p GenParams) (*Generator, error) {
	if p.NumKeys == 0 {
		return nil, ErrNoKeys
	}
	first := p.Offset * p.NumKeys
	return &Generator{
		rng:    bench.NewLCG48(p.Seed),
		key:    first,
		end:    first + p.NumKeys,
		perKey: p.RowsPerKey,
	}, nil
}

// Next fills r with the next row and reports false once the slice is done.
// Values are drawn from the same LCG48 stream the benchmark samples keys from.
func (g *Generator) Next(r *Row) bool {
	if g.perKey == 0 {
		return false
	}
	if g.ck >= g.perKey {
		g.key++
		g.ck = 0
	}
	if g.key >= g.end {
		return false
	}
	r.PKey, r.CK = g.key, g.ck
	for k := range r.Values {
		r.Values[k] = int64(g.rng.Float64() * ColRange)
	}
	g.ck++
	return true
}

// Each calls fn for every row of p in order.
func Each(p GenParams, fn func(Row) error) error {
	g, err := NewGenerator(p)
	if err != nil {
		return err
	}
	var r Row
	for g.Next(&r) {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// Generate writes CSV rows "pkey,ck,v1,...,v8" to w and returns the number
// of rows written.
func Generate(w io.Writer, p GenParams) (int64, error) {
	bw := bufio.NewWriter(w)
	line := make([]byte, 0, 128)

	var n int64
	err := Each(p, func(r Row) error {
		line = strconv.AppendUint(line[:0], r.PKey, 10)
		line = append(line, ',')
		line = strconv.AppendUint(line, r.CK, 10)
		for _, v := range r.Values {
			line = append(line, ',')
			line = strconv.AppendInt(line, v, 10)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return n, err
	}
	return n, bw.Flush()
}
