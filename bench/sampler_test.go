package bench

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference draws from glibc srand48_r/drand48_r.
func TestLCG48MatchesDrand48(t *testing.T) {
	cases := []struct {
		seed  int32
		draws []float64
	}{
		{0, []float64{0.17082803610628972, 0.74990198048496381, 0.09637165562356742, 0.87046522702707563, 0.57730350679510778}},
		{42, []float64{0.74452500006100664, 0.34270147871890799, 0.11108528244416149, 0.42233895798830901, 0.08111117117831057}},
		{1, []float64{0.041630344771878214, 0.45449244472862915, 0.8348172181669149, 0.33598603014520023, 0.56548940356613642}},
		{-1, []float64{0.30002572744070122, 0.045311516241298477, 0.35792609308021994, 0.40494442390895102, 0.58911761002407914}},
	}
	for _, tc := range cases {
		g := NewLCG48(tc.seed)
		for i, want := range tc.draws {
			assert.Equal(t, want, g.Float64(), "seed %d draw %d", tc.seed, i)
		}
	}
}

func TestKeySamplerSeed42(t *testing.T) {
	s := NewKeySampler(42)
	var got []uint64
	for i := 0; i < 5; i++ {
		k, err := s.Next(1000)
		require.NoError(t, err)
		got = append(got, k)
	}
	assert.Equal(t, []uint64{744, 342, 111, 422, 81}, got)
}

func TestKeySamplerRejectsEmptyRange(t *testing.T) {
	s := NewKeySampler(7)
	_, err := s.Next(0)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestKeySamplerHugeRangeStaysBelowBound(t *testing.T) {
	s := NewKeySampler(3)
	const r = ^uint64(0)
	for i := 0; i < 1000; i++ {
		k, err := s.Next(r)
		require.NoError(t, err)
		require.Less(t, k, r)
	}
}

func TestKeySamplerClone(t *testing.T) {
	s := NewKeySampler(99)
	for i := 0; i < 10; i++ {
		s.Next(50)
	}
	c := s.Clone()
	for i := 0; i < 100; i++ {
		a, _ := s.Next(1 << 20)
		b, _ := c.Next(1 << 20)
		require.Equal(t, a, b, "draw %d", i)
	}
}

func TestProperty_KeySampler(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("two samplers with the same seed agree", prop.ForAll(
		func(seed int32, keyRange uint64) bool {
			a, b := NewKeySampler(seed), NewKeySampler(seed)
			for i := 0; i < 64; i++ {
				ka, errA := a.Next(keyRange)
				kb, errB := b.Next(keyRange)
				if errA != nil || errB != nil || ka != kb {
					return false
				}
			}
			return true
		},
		gen.Int32(),
		gen.UInt64Range(1, 1<<40),
	))

	properties.Property("sampled keys fall in [0, range)", prop.ForAll(
		func(seed int32, keyRange uint64) bool {
			s := NewKeySampler(seed)
			for i := 0; i < 64; i++ {
				k, err := s.Next(keyRange)
				if err != nil || k >= keyRange {
					return false
				}
			}
			return true
		},
		gen.Int32(),
		gen.UInt64Range(1, 10000),
	))

	properties.TestingRun(t)
}
