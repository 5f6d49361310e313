package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrInvalidDuration is returned when a session of zero or negative length
// is appended.
var ErrInvalidDuration = errors.New("session duration must be positive")

// Sessions is the append-only study session ledger.
type Sessions struct {
	kv    KV
	l     *log.Logger
	now   func() time.Time
	newID func() string
}

type SessionsOption func(*Sessions)

// WithClock overrides the timestamp source used by Append.
func WithClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) { s.now = now }
}

// WithIDFunc overrides the session id generator.
func WithIDFunc(fn func() string) SessionsOption {
	return func(s *Sessions) { s.newID = fn }
}

func NewSessions(kv KV, logger *log.Logger, opts ...SessionsOption) *Sessions {
	if logger == nil {
		logger = log.Default()
	}
	s := &Sessions{
		kv:    kv,
		l:     logger,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append records a finished session of durationSeconds, stamped with the
// current time. Nothing is persisted when the write fails.
func (s *Sessions) Append(durationSeconds int) (StudySession, error) {
	if durationSeconds <= 0 {
		return StudySession{}, fmt.Errorf("append session of %ds: %w", durationSeconds, ErrInvalidDuration)
	}

	session := StudySession{
		ID:       s.newID(),
		Duration: durationSeconds,
		Date:     s.now().UTC(),
	}

	sessions := append(s.ListAll(), session)
	data, err := json.Marshal(sessions)
	if err != nil {
		s.l.Error("encoding sessions", "err", err)
		return StudySession{}, fmt.Errorf("encode sessions: %w", err)
	}
	if err := s.kv.Set(SessionsKey, string(data)); err != nil {
		s.l.Error("saving session", "id", session.ID, "duration", durationSeconds, "err", err)
		return StudySession{}, fmt.Errorf("save session: %w", err)
	}

	s.l.Debug("session saved", "id", session.ID, "duration", durationSeconds)
	return session, nil
}

// ListAll returns every session in insertion order. Missing or corrupt data
// reads as an empty ledger.
func (s *Sessions) ListAll() []StudySession {
	raw, err := s.kv.Get(SessionsKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.l.Warn("reading sessions", "err", err)
		}
		return []StudySession{}
	}

	var sessions []StudySession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		s.l.Warn("discarding corrupt session ledger", "err", err)
		return []StudySession{}
	}
	if sessions == nil {
		return []StudySession{}
	}
	return sessions
}
