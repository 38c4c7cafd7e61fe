package model

import "math/rand/v2"

// Shuffler permutes candidate sections before grouping so that equally valid schedules are not always surfaced in the same order.
// *rand.Rand satisfies it. A Shuffler is not safe for concurrent use unless its implementation says so
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewRandomShuffler returns a uniform Fisher-Yates shuffler seeded with seed
func NewRandomShuffler(seed uint64) Shuffler {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type identityShuffler struct{}

// NewIdentityShuffler keeps the catalog order, making Build deterministic
func NewIdentityShuffler() Shuffler {
	return identityShuffler{}
}

func (identityShuffler) Shuffle(int, func(i, j int)) {}
