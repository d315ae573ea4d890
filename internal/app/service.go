package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
)

// Session is the in-memory state tracked per browser session.
type Session struct {
	ID      string
	Game    domain.Game
	Created time.Time
	Updated time.Time
}

// subscriber channels are closed only while Service.mu is held, by whoever
// removes them from Service.subs.
type subscriber struct {
	ch chan []byte
}

// Service owns one game per session and serialises every access to it.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session
	subs     map[string]map[*subscriber]struct{}
	render   func(View) []byte
	now      func() time.Time
	log      *zap.Logger
}

// NewService creates a service with a renderer that broadcasts nothing.
func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		sessions: make(map[string]*Session),
		subs:     make(map[string]map[*subscriber]struct{}),
		render:   func(View) []byte { return nil },
		now:      time.Now,
		log:      log.Named("app"),
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(View) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(View) []byte { return nil }
		return
	}
	s.render = renderer
}

// Open returns the view of the session's game, creating a fresh game for an unknown id.
func (s *Service) Open(id string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.openLocked(id)
	sess.Updated = s.now()
	return buildView(sess)
}

// Get returns the current view if the session exists.
func (s *Service) Get(id string) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return View{}, false
	}
	return buildView(sess), true
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ApplyMove plays cell idx for whoever is next. Unknown or evicted sessions
// start a fresh game first. Disallowed moves leave the
// game untouched and still return the current view.
func (s *Service) ApplyMove(id string, idx int) (View, error) {
	return s.mutate(id, "move", func(g *domain.Game) error {
		if !g.ApplyMove(idx) {
			s.log.Debug("move ignored", zap.String("session", id), zap.Int("cell", idx))
		}
		return nil
	})
}

// JumpTo rewinds (or fast-forwards) the session to a history step.
func (s *Service) JumpTo(id string, step int) (View, error) {
	return s.mutate(id, "jump", func(g *domain.Game) error {
		return g.JumpTo(step)
	})
}

// Restart discards the session's history.
func (s *Service) Restart(id string) (View, error) {
	return s.mutate(id, "restart", func(g *domain.Game) error {
		g.Restart()
		return nil
	})
}

// mutate opens the session, applies fn to its game and fans the new view out
// to subscribers under one lock. On error the unchanged view is returned
// alongside it and nothing is broadcast.
func (s *Service) mutate(id, op string, fn func(*domain.Game) error) (View, error) {
	s.mu.Lock()
	sess := s.openLocked(id)
	sess.Updated = s.now()
	if err := fn(&sess.Game); err != nil {
		v := buildView(sess)
		s.mu.Unlock()
		return v, fmt.Errorf("%s: %w", op, err)
	}
	v := buildView(sess)
	dropped := s.broadcastLocked(id, s.render(v))
	s.mu.Unlock()

	s.log.Debug("game updated",
		zap.String("session", id),
		zap.String("op", op),
		zap.Int("step", v.Step),
		zap.String("status", v.StatusText),
	)
	if dropped > 0 {
		s.log.Info("dropped slow subscribers", zap.String("session", id), zap.Int("count", dropped))
	}
	return v, nil
}

// broadcastLocked delivers payload to every subscriber of id. A subscriber
// whose buffer is full is closed and removed.
func (s *Service) broadcastLocked(id string, payload []byte) int {
	set := s.subs[id]
	dropped := 0
	for sub := range set {
		select {
		case sub.ch <- payload:
		default:
			delete(set, sub)
			close(sub.ch)
			dropped++
		}
	}
	if len(set) == 0 {
		delete(s.subs, id)
	}
	return dropped
}

// Subscribe registers a subscriber for a session. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openLocked(id)
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsub := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		set, ok := s.subs[id]
		if !ok {
			return
		}
		if _, ok := set[sub]; !ok {
			// already dropped by a broadcast
			return
		}
		delete(set, sub)
		if len(set) == 0 {
			delete(s.subs, id)
		}
		close(sub.ch)
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

// Sweep evicts sessions idle for longer than ttl that nobody is subscribed to.
func (s *Service) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	evicted := 0
	for id, sess := range s.sessions {
		if len(s.subs[id]) > 0 || sess.Updated.After(cutoff) {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	return evicted
}

// RunJanitor sweeps every interval until ctx is done. A non-positive
// interval or ttl disables sweeping.
func (s *Service) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 || ttl <= 0 {
		s.log.Warn("session janitor disabled", zap.Duration("interval", interval), zap.Duration("ttl", ttl))
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ttl); n > 0 {
				s.log.Info("evicted idle sessions", zap.Int("count", n), zap.Int("remaining", s.Len()))
			}
		}
	}
}

func (s *Service) openLocked(id string) *Session {
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	now := s.now()
	sess := &Session{ID: id, Game: domain.New(), Created: now, Updated: now}
	s.sessions[id] = sess
	s.log.Debug("session opened", zap.String("session", id))
	return sess
}
