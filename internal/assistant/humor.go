package assistant

import (
	"math/rand/v2"
	"sync"
	"time"
)

var openers = []string{
	"Got it, on it. 😎",
	"Copy that, moving. 😉",
	"Alright, working. 🧠",
}

// Humor picks a casual opener for assistant messages.
type Humor struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewHumor creates a Humor drawing from src. A nil src is seeded from the clock.
func NewHumor(src rand.Source) *Humor {
	if src == nil {
		src = rand.NewPCG(uint64(time.Now().UnixNano()), 0)
	}
	return &Humor{rnd: rand.New(src)}
}

// Opener returns one opener line.
func (h *Humor) Opener() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return openers[h.rnd.IntN(len(openers))]
}

// Wrap prefixes msg with an opener line.
func (h *Humor) Wrap(msg string) string {
	return h.Opener() + "\n" + msg
}
