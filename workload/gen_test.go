package workload

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSeed42(t *testing.T) {
	var buf bytes.Buffer
	n, err := Generate(&buf, GenParams{NumKeys: 1, RowsPerKey: 1, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	// first eight drand48 draws for seed 42 scaled to [0, 1e6)
	assert.Equal(t, "0,0,744525,342701,111085,422338,81111,856440,498799,478814\n", buf.String())
}

func TestGenerateKeySlice(t *testing.T) {
	var buf bytes.Buffer
	n, err := Generate(&buf, GenParams{NumKeys: 3, RowsPerKey: 2, Offset: 2, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	var prefixes []string
	for _, l := range lines {
		f := strings.SplitN(l, ",", 3)
		prefixes = append(prefixes, f[0]+","+f[1])
	}
	assert.Equal(t, []string{"6,0", "6,1", "7,0", "7,1", "8,0", "8,1"}, prefixes)
}

func TestGenerateIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	p := GenParams{NumKeys: 10, RowsPerKey: 3, Seed: 1234}
	_, err := Generate(&a, p)
	require.NoError(t, err)
	_, err = Generate(&b, p)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestGenerateRejectsEmptyKeySpace(t *testing.T) {
	_, err := Generate(&bytes.Buffer{}, GenParams{RowsPerKey: 1})
	assert.Error(t, err)
}

func TestGeneratorMatchesEach(t *testing.T) {
	p := GenParams{NumKeys: 4, RowsPerKey: 3, Offset: 1, Seed: 9}
	var want []Row
	require.NoError(t, Each(p, func(r Row) error {
		want = append(want, r)
		return nil
	}))

	g, err := NewGenerator(p)
	require.NoError(t, err)
	var got []Row
	var r Row
	for g.Next(&r) {
		got = append(got, r)
	}
	assert.Equal(t, want, got)
	require.Len(t, got, 12)
	assert.Equal(t, Row{PKey: 7, CK: 2, Values: got[11].Values}, got[11])
	assert.False(t, g.Next(&r), "exhausted generator stays exhausted")
}

func TestGeneratorNoRowsPerKey(t *testing.T) {
	g, err := NewGenerator(GenParams{NumKeys: 5})
	require.NoError(t, err)
	assert.False(t, g.Next(&Row{}))

	_, err = NewGenerator(GenParams{RowsPerKey: 1})
	assert.ErrorIs(t, err, ErrNoKeys)
}
