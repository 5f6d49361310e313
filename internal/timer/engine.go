// Package timer implements the focus countdown and count-up stopwatch.
//
// The engine does not own a clock. Callers drive it by calling Tick once per
// elapsed second with the Loop tag returned by Start, Resume or TakeBreak.
// Every transition retires the current tag, so ticks from an older loop are
// ignored and at most one tick source can move the count.
package timer

import (
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sadopc/studybuddy/internal/achievement"
	"github.com/sadopc/studybuddy/internal/store"
)

const (
	TickInterval     = time.Second
	CelebrationDelay = 3 * time.Second
	BreakDuration    = 5 * time.Minute
)

// Loop identifies one tick source. The zero Loop is never live.
type Loop uint64

// SessionRecorder is the write side of the session ledger.
type SessionRecorder interface {
	Append(durationSeconds int) (store.StudySession, error)
}

// AchievementChecker is run after every committed session.
type AchievementChecker interface {
	Check() []achievement.Unlocked
}

// DurationStore persists the selected focus duration in minutes.
type DurationStore interface {
	Load() int
	Save(minutes int) error
}

// Event describes one state transition. Session and Unlocked are set on
// EventCompleted and EventFinished; Err is set when the session could not be
// saved.
type Event struct {
	Kind     EventKind
	Mode     Mode
	State    State
	Session  *store.StudySession
	Unlocked []achievement.Unlocked
	Err      error
}

// Snapshot is a read-only view of the engine for rendering.
type Snapshot struct {
	Mode         Mode
	State        State
	FocusMinutes int
	Remaining    time.Duration // countdown and break
	Elapsed      time.Duration // stopwatch
	Celebration  Loop          // pass to EndCelebration while Completed
}

// Display is the value a clock face should show.
func (s Snapshot) Display() time.Duration {
	if s.Mode == Stopwatch && s.State != Break {
		return s.Elapsed
	}
	return s.Remaining
}

type Engine struct {
	recorder  SessionRecorder
	checker   AchievementChecker
	durations DurationStore
	l         *log.Logger

	mu           sync.Mutex
	mode         Mode
	state        State
	focusMinutes int
	runMinutes   int // focus length captured at Start
	remaining    int // seconds
	elapsed      int // seconds
	loop         Loop
	lastLoop     Loop
	celebration  Loop

	listenerMu sync.Mutex
	nextID     int
	listeners  map[int]func(Event)
}

func NewEngine(recorder SessionRecorder, checker AchievementChecker, durations DurationStore, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	minutes := store.DefaultFocusMinutes
	if durations != nil {
		minutes = durations.Load()
	}
	return &Engine{
		recorder:     recorder,
		checker:      checker,
		durations:    durations,
		l:            logger,
		mode:         Countdown,
		state:        Idle,
		focusMinutes: minutes,
		remaining:    minutes * 60,
		listeners:    make(map[int]func(Event)),
	}
}

// Subscribe registers fn for every transition event. Events are delivered
// synchronously after the engine lock is released, so fn may call back into
// the engine.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.listenerMu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.listenerMu.Unlock()

	return func() {
		e.listenerMu.Lock()
		delete(e.listeners, id)
		e.listenerMu.Unlock()
	}
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Mode:         e.mode,
		State:        e.state,
		FocusMinutes: e.focusMinutes,
		Remaining:    time.Duration(e.remaining) * time.Second,
		Elapsed:      time.Duration(e.elapsed) * time.Second,
		Celebration:  e.celebration,
	}
}

// SetMode switches between countdown and stopwatch. Only allowed while idle.
func (e *Engine) SetMode(m Mode) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Idle || (m != Countdown && m != Stopwatch) {
		return false
	}
	e.mode = m
	e.remaining = e.focusMinutes * 60
	e.elapsed = 0
	return true
}

// SetDuration changes the focus length. It is rejected unless the engine is
// idle or on a break and minutes is within range.
func (e *Engine) SetDuration(minutes int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Idle && e.state != Break {
		return false
	}
	if minutes < store.MinFocusMinutes || minutes > store.MaxFocusMinutes {
		return false
	}

	e.focusMinutes = minutes
	if e.durations != nil {
		if err := e.durations.Save(minutes); err != nil {
			e.l.Warn("focus duration not persisted", "minutes", minutes, "err", err)
		}
	}
	if e.state == Idle {
		e.remaining = minutes * 60
	}
	return true
}

// Start begins a focus run from idle, a break, or the completed screen. From
// paused it resumes the same run. While already focusing it replaces the
// tick source without touching the count.
func (e *Engine) Start() Loop {
	e.mu.Lock()
	switch e.state {
	case Paused:
		e.mu.Unlock()
		return e.Resume()
	case Focusing:
		defer e.mu.Unlock()
		return e.newLoop()
	}

	e.state = Focusing
	e.celebration = 0
	e.runMinutes = e.focusMinutes
	e.remaining = e.focusMinutes * 60
	e.elapsed = 0
	minutes := e.runMinutes
	loop := e.newLoop()
	ev := e.event(EventStarted)
	e.mu.Unlock()

	e.l.Debug("timer started", "mode", ev.Mode, "minutes", minutes)
	e.emit(ev)
	return loop
}

// Pause stops the tick source and keeps the count exactly where it is.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	if e.state != Focusing {
		e.mu.Unlock()
		return false
	}
	e.state = Paused
	e.loop = 0
	ev := e.event(EventPaused)
	e.mu.Unlock()

	e.emit(ev)
	return true
}

// Resume continues a paused run under a new tick source.
func (e *Engine) Resume() Loop {
	e.mu.Lock()
	if e.state != Paused {
		e.mu.Unlock()
		return 0
	}
	e.state = Focusing
	loop := e.newLoop()
	ev := e.event(EventResumed)
	e.mu.Unlock()

	e.emit(ev)
	return loop
}

// Reset returns to idle with the full focus duration. Nothing is recorded.
func (e *Engine) Reset() {
	e.mu.Lock()
	prev := e.state
	e.state = Idle
	e.loop = 0
	e.celebration = 0
	e.remaining = e.focusMinutes * 60
	e.elapsed = 0
	ev := e.event(EventReset)
	e.mu.Unlock()

	if prev != Idle {
		e.emit(ev)
	}
}

// TakeBreak starts a fixed-length break countdown. Only available in
// countdown mode; nothing is recorded for the interrupted run.
func (e *Engine) TakeBreak() Loop {
	e.mu.Lock()
	if e.mode != Countdown || (e.state != Focusing && e.state != Paused && e.state != Completed) {
		e.mu.Unlock()
		return 0
	}
	e.state = Break
	e.celebration = 0
	e.remaining = int(BreakDuration / time.Second)
	loop := e.newLoop()
	ev := e.event(EventBreakStarted)
	e.mu.Unlock()

	e.emit(ev)
	return loop
}

// Finish commits a paused stopwatch run with a nonzero count and returns to
// idle.
func (e *Engine) Finish() bool {
	e.mu.Lock()
	if e.mode != Stopwatch || e.state != Paused || e.elapsed <= 0 {
		e.mu.Unlock()
		return false
	}
	ev := e.commit(e.elapsed, EventFinished)
	e.state = Idle
	e.loop = 0
	e.elapsed = 0
	ev.State = Idle
	e.mu.Unlock()

	e.emit(ev)
	return true
}

// Tick advances the count by one second if loop is the live tick source. It
// reports whether the caller should keep ticking this loop.
func (e *Engine) Tick(loop Loop) bool {
	e.mu.Lock()
	if loop == 0 || loop != e.loop {
		e.mu.Unlock()
		return false
	}

	var ev *Event
	switch {
	case e.state == Focusing && e.mode == Stopwatch:
		e.elapsed++
	case e.state == Focusing:
		e.remaining--
		if e.remaining <= 0 {
			e.remaining = 0
			e.loop = 0
			e.state = Completed
			done := e.commit(e.runMinutes*60, EventCompleted)
			e.celebration = e.newCelebration()
			ev = &done
		}
	case e.state == Break:
		e.remaining--
		if e.remaining <= 0 {
			e.state = Idle
			e.loop = 0
			e.remaining = e.focusMinutes * 60
			over := e.event(EventBreakOver)
			ev = &over
		}
	default:
		e.loop = 0
	}
	live := e.loop == loop
	e.mu.Unlock()

	if ev != nil {
		e.emit(*ev)
	}
	return live
}

// EndCelebration leaves the completed screen for idle. It does nothing if
// any other transition happened since the run completed.
func (e *Engine) EndCelebration(tag Loop) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Completed || tag == 0 || tag != e.celebration {
		return false
	}
	e.state = Idle
	e.celebration = 0
	e.remaining = e.focusMinutes * 60
	return true
}

// commit saves a session and runs the achievement check against a ledger
// that already contains it. A failed save is logged and reported on the
// event; the transition goes ahead regardless.
func (e *Engine) commit(seconds int, kind EventKind) Event {
	ev := e.event(kind)
	session, err := e.recorder.Append(seconds)
	if err != nil {
		e.l.Error("session not saved", "seconds", seconds, "err", err)
		ev.Err = err
		return ev
	}
	ev.Session = &session
	if e.checker != nil {
		ev.Unlocked = e.checker.Check()
	}
	e.l.Info("session recorded", "id", session.ID, "seconds", seconds, "unlocked", len(ev.Unlocked))
	return ev
}

func (e *Engine) event(kind EventKind) Event {
	return Event{Kind: kind, Mode: e.mode, State: e.state}
}

func (e *Engine) newLoop() Loop {
	e.lastLoop++
	e.loop = e.lastLoop
	return e.loop
}

func (e *Engine) newCelebration() Loop {
	e.lastLoop++
	return e.lastLoop
}

func (e *Engine) emit(ev Event) {
	e.listenerMu.Lock()
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, e.listeners[id])
	}
	e.listenerMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
