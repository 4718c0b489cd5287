package service

import (
	"sync"
	"time"

	"github.com/ottersport/ottersport/internal/game"
)

// Pacer delays the AI's move so the presentation layer can show the
// player's card first. A zero delay runs the move synchronously.
type Pacer struct {
	Delay      time.Duration
	ComboDelay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

func NewPacer(delay, comboDelay time.Duration) *Pacer {
	return &Pacer{Delay: delay, ComboDelay: comboDelay, timers: map[string]*time.Timer{}}
}

// DelayFor returns how long to wait before the AI acts on s.
func (p *Pacer) DelayFor(s *game.BattleState) time.Duration {
	if s.LastCombo {
		return p.ComboDelay
	}
	return p.Delay
}

// Schedule arranges for run to be called once the AI's delay has passed,
// replacing any pending run for the same battle. Nothing is scheduled
// unless the battle is waiting on the AI.
func (p *Pacer) Schedule(id string, s *game.BattleState, run func(id string)) {
	if s == nil || s.Phase != game.PhaseAITurn {
		return
	}
	d := p.DelayFor(s)

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	if t, ok := p.timers[id]; ok {
		t.Stop()
		delete(p.timers, id)
	}
	if d <= 0 {
		p.mu.Unlock()
		run(id)
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		p.mu.Lock()
		if p.timers[id] != t {
			p.mu.Unlock()
			return
		}
		delete(p.timers, id)
		p.mu.Unlock()
		run(id)
	})
	p.timers[id] = t
	p.mu.Unlock()
}

// Cancel drops the pending run for a battle, if any.
func (p *Pacer) Cancel(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.timers[id]; ok {
		t.Stop()
		delete(p.timers, id)
	}
}

// Pending reports how many runs are waiting.
func (p *Pacer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers)
}

// Stop cancels every pending run and rejects new ones.
func (p *Pacer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	for id, t := range p.timers {
		t.Stop()
		delete(p.timers, id)
	}
}
