package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ottersport/ottersport/internal/game"
)

// ErrNotFound is returned for unknown or expired battle ids.
var ErrNotFound = errors.New("battle not found")

const subscriberBuffer = 8

// Battle is one live battle. States are immutable once stored: updates
// replace State with the engine's next state.
type Battle struct {
	ID        string            `json:"id"`
	DeckID    uint              `json:"deck_id"`
	State     *game.BattleState `json:"state"`
	Version   int               `json:"version"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type subscriber struct {
	ch chan Battle
}

// entry is one stored battle. turn serializes updates of that battle only;
// b is guarded by the store mutex.
type entry struct {
	turn sync.Mutex
	b    Battle
}

// Store keeps battles in memory and drops them after an idle TTL. The
// store mutex guards the maps and is never held while an update function
// runs; updates of one battle are serialized by that battle's own lock.
type Store struct {
	mu      sync.Mutex
	battles map[string]*entry
	subs    map[string]map[*subscriber]struct{}
	ttl     time.Duration
	now     func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewStore returns a store that expires battles idle for longer than ttl.
// When sweep is positive a janitor goroutine calls Expire on that interval
// until Close.
func NewStore(ttl, sweep time.Duration) *Store {
	s := &Store{
		battles: map[string]*entry{},
		subs:    map[string]map[*subscriber]struct{}{},
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if sweep > 0 {
		go s.janitor(sweep)
	} else {
		close(s.done)
	}
	return s
}

func (s *Store) janitor(every time.Duration) {
	defer close(s.done)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.Expire(s.now())
		}
	}
}

// Close stops the janitor and waits for it to exit.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.stop) })
	<-s.done
}

// Create stores a new battle under a fresh id.
func (s *Store) Create(deckID uint, state *game.BattleState) Battle {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &entry{b: Battle{ID: uuid.NewString(), DeckID: deckID, State: state, Version: 1, UpdatedAt: s.now()}}
	s.battles[e.b.ID] = e
	return e.b
}

// Get returns a snapshot of the battle.
func (s *Store) Get(id string) (Battle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.battles[id]
	if !ok {
		return Battle{}, ErrNotFound
	}
	return e.b, nil
}

// Update replaces the battle state with fn's result and notifies
// subscribers. If fn fails the battle is left untouched. Updates of the
// same battle run one at a time; other battles are not blocked while fn
// runs.
func (s *Store) Update(id string, fn func(Battle) (*game.BattleState, error)) (Battle, error) {
	s.mu.Lock()
	e, ok := s.battles[id]
	s.mu.Unlock()
	if !ok {
		return Battle{}, ErrNotFound
	}

	e.turn.Lock()
	defer e.turn.Unlock()

	s.mu.Lock()
	cur, live := e.b, s.battles[id] == e
	s.mu.Unlock()
	if !live {
		return Battle{}, ErrNotFound
	}

	next, err := fn(cur)
	if err != nil {
		return Battle{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.battles[id] != e {
		return Battle{}, ErrNotFound
	}
	e.b.State = next
	e.b.Version++
	e.b.UpdatedAt = s.now()
	s.publishLocked(e.b)
	return e.b, nil
}

// Delete removes the battle and closes its subscriptions. It reports
// whether the battle existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.battles[id]; !ok {
		return false
	}
	s.removeLocked(id)
	return true
}

// Len reports how many battles are live.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.battles)
}

// Expire removes battles idle since before now-ttl and returns their ids.
func (s *Store) Expire(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []string
	for id, e := range s.battles {
		if now.Sub(e.b.UpdatedAt) > s.ttl {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		s.removeLocked(id)
	}
	return expired
}

// Subscribe returns a channel receiving a snapshot after every update,
// starting with the current one. The channel is closed when the battle is
// removed or cancel is called. Slow readers miss snapshots.
func (s *Store) Subscribe(id string) (<-chan Battle, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.battles[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	sub := &subscriber{ch: make(chan Battle, subscriberBuffer)}
	if s.subs[id] == nil {
		s.subs[id] = map[*subscriber]struct{}{}
	}
	s.subs[id][sub] = struct{}{}
	sub.ch <- e.b

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if set, ok := s.subs[id]; ok {
			if _, live := set[sub]; live {
				delete(set, sub)
				close(sub.ch)
				if len(set) == 0 {
					delete(s.subs, id)
				}
			}
		}
	}
	return sub.ch, cancel, nil
}

func (s *Store) publishLocked(b Battle) {
	for sub := range s.subs[b.ID] {
		select {
		case sub.ch <- b:
		default:
		}
	}
}

func (s *Store) removeLocked(id string) {
	delete(s.battles, id)
	for sub := range s.subs[id] {
		close(sub.ch)
	}
	delete(s.subs, id)
}
