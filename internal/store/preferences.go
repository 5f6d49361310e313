package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

const (
	DefaultDailyGoalMinutes = 60
	MinDailyGoalMinutes     = 1
	MaxDailyGoalMinutes     = 720
)

// DefaultPreferences is the record a fresh installation starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		SoundEnabled:         true,
		NotificationsEnabled: false,
		DarkMode:             false,
		DailyGoalMinutes:     DefaultDailyGoalMinutes,
	}
}

// PreferencesStore holds the single preferences record of this
// installation and notifies subscribers whenever it is written.
type PreferencesStore struct {
	kv KV
	l  *log.Logger

	mu        sync.Mutex
	nextID    int
	listeners map[int]func(Preferences)
}

func NewPreferencesStore(kv KV, logger *log.Logger) *PreferencesStore {
	if logger == nil {
		logger = log.Default()
	}
	return &PreferencesStore{
		kv:        kv,
		l:         logger,
		listeners: make(map[int]func(Preferences)),
	}
}

// Read returns the stored record merged over the defaults field by field. A
// field that is missing or has the wrong type keeps its default.
func (p *PreferencesStore) Read() Preferences {
	prefs := DefaultPreferences()

	raw, err := p.kv.Get(PreferencesKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.l.Warn("reading preferences", "err", err)
		}
		return prefs
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		p.l.Warn("discarding corrupt preferences", "err", err)
		return prefs
	}

	p.readField(fields, "soundEnabled", &prefs.SoundEnabled)
	p.readField(fields, "notificationsEnabled", &prefs.NotificationsEnabled)
	p.readField(fields, "darkMode", &prefs.DarkMode)
	var goal float64
	if p.readField(fields, "dailyGoalMinutes", &goal) {
		if r := math.Round(goal); r >= MinDailyGoalMinutes && r <= MaxDailyGoalMinutes {
			prefs.DailyGoalMinutes = int(r)
		}
	}
	return prefs
}

func (p *PreferencesStore) readField(fields map[string]json.RawMessage, name string, dst any) bool {
	raw, ok := fields[name]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		p.l.Warn("ignoring preference field", "field", name, "err", err)
		return false
	}
	return true
}

// Write merges patch over the current record, persists it and notifies
// subscribers. Subscribers are not called when persisting fails.
func (p *PreferencesStore) Write(patch PreferencesPatch) (Preferences, error) {
	prefs := p.Read()
	if patch.SoundEnabled != nil {
		prefs.SoundEnabled = *patch.SoundEnabled
	}
	if patch.NotificationsEnabled != nil {
		prefs.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.DarkMode != nil {
		prefs.DarkMode = *patch.DarkMode
	}
	if patch.DailyGoalMinutes != nil {
		prefs.DailyGoalMinutes = clampGoal(*patch.DailyGoalMinutes)
	}

	if err := p.save(prefs); err != nil {
		return p.Read(), err
	}
	p.notify(prefs)
	return prefs, nil
}

// Reset restores the defaults.
func (p *PreferencesStore) Reset() (Preferences, error) {
	prefs := DefaultPreferences()
	if err := p.save(prefs); err != nil {
		return p.Read(), err
	}
	p.notify(prefs)
	return prefs, nil
}

func (p *PreferencesStore) ToggleSound() (Preferences, error) {
	v := !p.Read().SoundEnabled
	return p.Write(PreferencesPatch{SoundEnabled: &v})
}

func (p *PreferencesStore) ToggleNotifications() (Preferences, error) {
	v := !p.Read().NotificationsEnabled
	return p.Write(PreferencesPatch{NotificationsEnabled: &v})
}

func (p *PreferencesStore) ToggleDarkMode() (Preferences, error) {
	v := !p.Read().DarkMode
	return p.Write(PreferencesPatch{DarkMode: &v})
}

// SetDailyGoalMinutes rounds minutes to the nearest integer and clamps it to
// the allowed range. Anything that is not a finite positive number falls back
// to the default goal.
func (p *PreferencesStore) SetDailyGoalMinutes(minutes float64) (Preferences, error) {
	goal := DefaultDailyGoalMinutes
	if minutes > 0 && !math.IsInf(minutes, 1) {
		goal = clampGoal(int(math.Min(math.Round(minutes), MaxDailyGoalMinutes)))
	}
	return p.Write(PreferencesPatch{DailyGoalMinutes: &goal})
}

// Subscribe registers fn to be called synchronously after every successful
// write. The returned func removes it and may be called more than once.
func (p *PreferencesStore) Subscribe(fn func(Preferences)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *PreferencesStore) save(prefs Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := p.kv.Set(PreferencesKey, string(data)); err != nil {
		p.l.Error("saving preferences", "err", err)
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (p *PreferencesStore) notify(prefs Preferences) {
	p.mu.Lock()
	ids := make([]int, 0, len(p.listeners))
	for id := range p.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Preferences), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, p.listeners[id])
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(prefs)
	}
}

func clampGoal(minutes int) int {
	if minutes < MinDailyGoalMinutes {
		return MinDailyGoalMinutes
	}
	if minutes > MaxDailyGoalMinutes {
		return MaxDailyGoalMinutes
	}
	return minutes
}
