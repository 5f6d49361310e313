package achievement

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/sadopc/studybuddy/internal/stats"
	"github.com/sadopc/studybuddy/internal/store"
)

// SessionLister is the read side of the session ledger.
type SessionLister interface {
	ListAll() []store.StudySession
}

// UnlockStore persists unlock state. MarkUnlocked must be idempotent.
type UnlockStore interface {
	Load() store.UnlockRecord
	MarkUnlocked(id string, at time.Time) (bool, error)
}

// Unlocked is a catalog entry together with the moment it was unlocked.
type Unlocked struct {
	Definition
	UnlockedAt time.Time
}

// Progress describes how far along one achievement is. Current is capped at
// Requirement for progress-bar display.
type Progress struct {
	ID          string
	Current     int
	Requirement int
	Unlocked    bool
	UnlockedAt  time.Time // zero unless Unlocked
}

// Fraction is Current/Requirement in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Requirement <= 0 {
		return 1
	}
	return float64(p.Current) / float64(p.Requirement)
}

type Engine struct {
	sessions SessionLister
	unlocks  UnlockStore
	now      func() time.Time
	l        *log.Logger
}

type Option func(*Engine)

// WithClock overrides the time used for streaks and unlock timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(sessions SessionLister, unlocks UnlockStore, logger *log.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	e := &Engine{
		sessions: sessions,
		unlocks:  unlocks,
		now:      time.Now,
		l:        logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// metrics are the aggregates every requirement is measured against.
type metrics struct {
	sessions, minutes, streak, longest int
}

func (e *Engine) measure(now time.Time) metrics {
	sessions := e.sessions.ListAll()
	return metrics{
		sessions: stats.TotalCount(sessions),
		minutes:  stats.TotalMinutes(sessions),
		streak:   stats.CurrentStreak(sessions, now),
		longest:  stats.LongestSessionMinutes(sessions),
	}
}

func (m metrics) value(c Category) int {
	switch c {
	case Sessions:
		return m.sessions
	case Time:
		return m.minutes
	case Consistency:
		return m.streak
	case Focus:
		return m.longest
	}
	return 0
}

// Check unlocks every achievement whose requirement the current ledger
// meets and returns the ones that were not unlocked before, in catalog
// order. Calling it again without new sessions returns nothing.
func (e *Engine) Check() []Unlocked {
	now := e.now()
	m := e.measure(now)
	rec := e.unlocks.Load()

	var newly []Unlocked
	for _, def := range Catalog {
		if rec.Has(def.ID) || m.value(def.Category) < def.Requirement {
			continue
		}
		added, err := e.unlocks.MarkUnlocked(def.ID, now)
		if err != nil {
			// left locked so the next check retries it
			e.l.Error("unlocking achievement", "id", def.ID, "err", err)
			continue
		}
		if !added {
			continue
		}
		e.l.Info("achievement unlocked", "id", def.ID, "name", def.Name)
		newly = append(newly, Unlocked{Definition: def, UnlockedAt: now})
	}
	return newly
}

// Progress reports every catalog entry against the current ledger.
func (e *Engine) Progress() []Progress {
	m := e.measure(e.now())
	rec := e.unlocks.Load()

	out := make([]Progress, 0, len(Catalog))
	for _, def := range Catalog {
		p := Progress{
			ID:          def.ID,
			Current:     min(m.value(def.Category), def.Requirement),
			Requirement: def.Requirement,
			Unlocked:    rec.Has(def.ID),
		}
		if p.Unlocked {
			p.UnlockedAt = rec.UnlockedDates[def.ID]
		}
		out = append(out, p)
	}
	return out
}

// Unlocked lists the achievements already earned, in catalog order.
func (e *Engine) Unlocked() []Unlocked {
	rec := e.unlocks.Load()
	var out []Unlocked
	for _, def := range Catalog {
		if rec.Has(def.ID) {
			out = append(out, Unlocked{Definition: def, UnlockedAt: rec.UnlockedDates[def.ID]})
		}
	}
	return out
}

// Locked lists the achievements not yet earned, in catalog order.
func (e *Engine) Locked() []Definition {
	rec := e.unlocks.Load()
	var out []Definition
	for _, def := range Catalog {
		if !rec.Has(def.ID) {
			out = append(out, def)
		}
	}
	return out
}
