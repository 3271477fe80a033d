package domain

import "strings"

// Poet is the classical poet persona whose voice the text imitates.
type Poet string

// Recognized poets.
const (
	PoetLiBai      Poet = "李白"
	PoetDuFu       Poet = "杜甫"
	PoetSuShi      Poet = "苏轼"
	PoetLiQingzhao Poet = "李清照"
	PoetBaiJuyi    Poet = "白居易"
)

// Poets lists the recognized personas. The order is fixed so that seeded
// random choices are reproducible.
var Poets = []Poet{PoetLiBai, PoetDuFu, PoetSuShi, PoetLiQingzhao, PoetBaiJuyi}

// Rand is the randomness source used for persona, mood and template choices.
type Rand interface {
	// IntN returns a non-negative pseudo-random number in [0,n). It panics if n <= 0.
	IntN(n int) int
}

// IsKnown reports whether p is one of the recognized poets.
func (p Poet) IsKnown() bool {
	for _, known := range Poets {
		if p == known {
			return true
		}
	}
	return false
}

func (p Poet) String() string { return string(p) }

// ResolvePoet returns the poet named by name, or a uniformly random
// recognized poet when name is empty or unrecognized.
func ResolvePoet(name string, rng Rand) Poet {
	p := Poet(strings.TrimSpace(name))
	if p.IsKnown() {
		return p
	}
	return RandomPoet(rng)
}

// RandomPoet picks a recognized poet uniformly at random.
func RandomPoet(rng Rand) Poet {
	return Poets[rng.IntN(len(Poets))]
}
