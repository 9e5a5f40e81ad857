package bench

const (
	lcgMultiplier = 0x5DEECE66D
	lcgIncrement  = 0xB
	lcgMask       = 1<<48 - 1
	lcgSeedLow    = 0x330E
	lcgScale      = 1.0 / (1 << 48)
)

// LCG48 is the drand48 generator: a 48-bit linear congruential generator
// with the POSIX multiplier and increment. Seeding and stepping match
// srand48_r/drand48_r bit for bit, so keys sampled here agree with any
// data produced by the C tooling for the same seed.
type LCG48 struct {
	x uint64
}

func NewLCG48(seed int32) *LCG48 {
	return &LCG48{x: uint64(uint32(seed))<<16 | lcgSeedLow}
}

// Float64 advances the state and returns a draw in [0,1).
func (g *LCG48) Float64() float64 {
	g.x = (lcgMultiplier*g.x + lcgIncrement) & lcgMask
	return float64(g.x) * lcgScale
}

// KeySampler maps uniform draws onto a bounded integer key space.
// A sampler is not safe for concurrent use; Clone it instead.
type KeySampler struct {
	rng LCG48
}

func NewKeySampler(seed int32) *KeySampler {
	return &KeySampler{rng: *NewLCG48(seed)}
}

// Next returns floor(draw * keyRange).
func (s *KeySampler) Next(keyRange uint64) (uint64, error) {
	if keyRange == 0 {
		return 0, ErrInvalidRange
	}
	key := uint64(s.rng.Float64() * float64(keyRange))
	// float64 cannot represent every range above 2^53 exactly
	if key >= keyRange {
		key = keyRange - 1
	}
	return key, nil
}

// Clone returns a sampler positioned at the same point in the sequence.
func (s *KeySampler) Clone() *KeySampler {
	c := *s
	return &c
}
