// Package flow runs the fixed quoting conversation: one question at a time,
// a single calculation once every answer is known, and a confirmation step
// before the PDF can be downloaded.
package flow

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ehc32/Cotizador-V1/internal/catalog"
	"github.com/ehc32/Cotizador-V1/internal/pricing"
)

var (
	ErrInvalidAnswer   = errors.New("invalid answer")
	ErrSessionNotFound = errors.New("session not found")
	ErrNotConfirmed    = errors.New("quote download not confirmed")
)

const (
	DefaultMaxRooms = 4
	DefaultTTL      = 30 * time.Minute
)

type Options struct {
	MaxRooms int
	TTL      time.Duration
	Now      func() time.Time
	Logger   *zap.Logger
	// OnQuote is called once per session when its quote is computed.
	OnQuote  func(pricing.Quote)
}

// Store keeps conversation sessions in memory. It is safe for concurrent use.
type Store struct {
	catalog  *catalog.Snapshot
	maxRooms int
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
	onQuote  func(pricing.Quote)

	mu       sync.Mutex
	sessions map[string]*session
}

func NewStore(snap *catalog.Snapshot, opts Options) *Store {
	if opts.MaxRooms <= 0 {
		opts.MaxRooms = DefaultMaxRooms
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Store{
		catalog:  snap,
		maxRooms: opts.MaxRooms,
		ttl:      opts.TTL,
		now:      opts.Now,
		logger:   opts.Logger,
		onQuote:  opts.OnQuote,
		sessions: make(map[string]*session),
	}
}

// Start opens a new session and returns its id and first question.
func (s *Store) Start() (string, Prompt, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", Prompt{}, fmt.Errorf("generate session id: %w", err)
	}

	sess := &session{id: id.String(), step: StepLot, lastSeen: s.now()}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Debug("chat session started", zap.String("op", "flow.Start"), zap.String("session", sess.id))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.id, s.prompt(sess), nil
}

// Prompt returns the pending question of a session.
func (s *Store) Prompt(id string) (Prompt, error) {
	sess, err := s.get(id)
	if err != nil {
		return Prompt{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.prompt(sess), nil
}

// Answer applies an answer to the pending question. An invalid answer
// returns ErrInvalidAnswer and leaves the session where it was.
func (s *Store) Answer(id, answer string) (Prompt, error) {
	sess, err := s.get(id)
	if err != nil {
		return Prompt{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := s.apply(sess, answer); err != nil {
		return s.prompt(sess), err
	}
	if sess.step == StepConfirm && sess.justComputed {
		sess.justComputed = false
		s.logger.Info("quote computed",
			zap.String("op", "flow.Answer"),
			zap.String("session", sess.id),
			zap.Float64("total_area", sess.quote.Summary.TotalArea),
			zap.Int64("total_amount", sess.quote.Costs.TotalAmount),
		)
		if s.onQuote != nil {
			s.onQuote(*sess.quote)
		}
	}
	return s.prompt(sess), nil
}

// Quote returns the quote of a session whose download was confirmed. It
// can be called any number of times; the quote is never recomputed.
func (s *Store) Quote(id string) (pricing.Quote, error) {
	sess, err := s.get(id)
	if err != nil {
		return pricing.Quote{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != StepConfirmed || sess.quote == nil {
		return pricing.Quote{}, ErrNotConfirmed
	}
	return *sess.quote, nil
}

// Sweep removes sessions idle for longer than the TTL and reports how many
// were dropped.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := now.Sub(sess.lastSeen) > s.ttl
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) get(id string) (*session, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if now.Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = now
	return sess, nil
}
