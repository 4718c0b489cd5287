package engine

import (
	"math/rand"
	"sync"

	"github.com/ottersport/ottersport/internal/game"
)

// Rand is the random source used for shuffles, special assignment and the
// opponent's tie-breaks. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// lockedRand serializes access to a *rand.Rand shared between sessions.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a goroutine-safe source seeded with seed.
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Shuffle permutes cards in place (Fisher-Yates).
func Shuffle(r Rand, cards []game.PlayCard) {
	for i := len(cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
