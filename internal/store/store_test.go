package store

import (
	"errors"
	"fmt"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// failingKV wraps a KV and fails every Set once armed.
type failingKV struct {
	KV
	failSet bool
}

var errDiskFull = errors.New("disk full")

func (f *failingKV) Set(key, value string) error {
	if f.failSet {
		return errDiskFull
	}
	return f.KV.Set(key, value)
}

// fixedClock returns a clock that advances by one minute on every call.
func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(time.Minute)
		return now
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/studybuddy.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen, data survives and migration is not re-run
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	v, err := s2.Get("k")
	if err != nil || v != "v" {
		t.Fatalf("expected persisted value, got %q err=%v", v, err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Key/value
// ============================================================

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore(t)
	s.Set("k", "one")
	s.Set("k", "two")
	v, err := s.Get("k")
	if err != nil {
		t.Fatal(err)
	}
	if v != "two" {
		t.Fatalf("expected two, got %q", v)
	}
}

// ============================================================
// Sessions
// ============================================================

func TestAppendAndListInOrder(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ledger := NewSessions(s, quietLogger(), WithClock(fixedClock(start)), WithIDFunc(sequentialIDs()))

	durations := []int{60, 1500, 30, 3600}
	for _, d := range durations {
		if _, err := ledger.Append(d); err != nil {
			t.Fatalf("append %d: %v", d, err)
		}
	}

	got := ledger.ListAll()
	if len(got) != len(durations) {
		t.Fatalf("expected %d sessions, got %d", len(durations), len(got))
	}
	for i, d := range durations {
		if got[i].Duration != d {
			t.Fatalf("session %d: expected duration %d, got %d", i, d, got[i].Duration)
		}
		if got[i].ID != fmt.Sprintf("s%d", i+1) {
			t.Fatalf("session %d: unexpected id %q", i, got[i].ID)
		}
		want := start.Add(time.Duration(i) * time.Minute)
		if !got[i].Date.Equal(want) {
			t.Fatalf("session %d: expected date %v, got %v", i, want, got[i].Date)
		}
	}
}

func TestAppendDoesNotMutateEarlierSessions(t *testing.T) {
	s := newTestStore(t)
	ledger := NewSessions(s, quietLogger())

	first, _ := ledger.Append(120)
	ledger.Append(240)
	ledger.Append(360)

	got := ledger.ListAll()[0]
	if got.ID != first.ID || got.Duration != first.Duration || !got.Date.Equal(first.Date) {
		t.Fatalf("first session changed: before %+v after %+v", first, got)
	}
}

func TestAppendRejectsNonPositive(t *testing.T) {
	s := newTestStore(t)
	ledger := NewSessions(s, quietLogger())

	for _, d := range []int{0, -5} {
		if _, err := ledger.Append(d); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("append %d: expected ErrInvalidDuration, got %v", d, err)
		}
	}
	if n := len(ledger.ListAll()); n != 0 {
		t.Fatalf("expected no sessions, got %d", n)
	}
}

func TestAppendGeneratesUniqueIDs(t *testing.T) {
	s := newTestStore(t)
	ledger := NewSessions(s, quietLogger())

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		sess, err := ledger.Append(60)
		if err != nil {
			t.Fatal(err)
		}
		if sess.ID == "" || seen[sess.ID] {
			t.Fatalf("duplicate or empty id %q", sess.ID)
		}
		seen[sess.ID] = true
	}
}

// interleavedKV runs beforeSet once, between a writer's read and its write.
type interleavedKV struct {
	KV
	beforeSet func()
}

func (k *interleavedKV) Set(key, value string) error {
	if fn := k.beforeSet; fn != nil {
		k.beforeSet = nil
		fn()
	}
	return k.KV.Set(key, value)
}

// Two handles on one database file overwrite whole documents, so the last
// writer wins and an append made in between is lost. Strict consistency
// across handles is not provided.
func TestConcurrentHandlesLastWriteWins(t *testing.T) {
	path := t.TempDir() + "/studybuddy.db"
	first, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()
	second, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	other := NewSessions(second, quietLogger(), WithClock(fixedClock(start)), WithIDFunc(func() string { return "other" }))
	kv := &interleavedKV{KV: first}
	kv.beforeSet = func() {
		if _, err := other.Append(600); err != nil {
			t.Fatalf("append through second handle: %v", err)
		}
	}
	stale := NewSessions(kv, quietLogger(), WithClock(fixedClock(start)), WithIDFunc(func() string { return "stale" }))

	if _, err := stale.Append(1200); err != nil {
		t.Fatal(err)
	}

	got := NewSessions(second, quietLogger()).ListAll()
	if len(got) != 1 || got[0].ID != "stale" {
		t.Fatalf("expected only the last writer's session, got %+v", got)
	}
}

func TestListAllEmpty(t *testing.T) {
	s := newTestStore(t)
	ledger := NewSessions(s, quietLogger())
	got := ledger.ListAll()
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestListAllCorruptData(t *testing.T) {
	s := newTestStore(t)
	s.Set(SessionsKey, "{not json")
	ledger := NewSessions(s, quietLogger())

	if n := len(ledger.ListAll()); n != 0 {
		t.Fatalf("corrupt ledger should read as empty, got %d", n)
	}

	// Appending over corrupt data starts a fresh ledger.
	if _, err := ledger.Append(90); err != nil {
		t.Fatal(err)
	}
	if n := len(ledger.ListAll()); n != 1 {
		t.Fatalf("expected 1 session, got %d", n)
	}
}

func TestListAllReadsBrowserFormat(t *testing.T) {
	s := newTestStore(t)
	s.Set(SessionsKey, `[{"id":"a","duration":1800,"date":"2026-01-05T10:00:00.000Z"}]`)
	ledger := NewSessions(s, quietLogger())

	got := ledger.ListAll()
	if len(got) != 1 || got[0].Duration != 1800 {
		t.Fatalf("unexpected sessions: %+v", got)
	}
	want := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	if !got[0].Date.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got[0].Date)
	}
}

func TestAppendWriteFailure(t *testing.T) {
	s := newTestStore(t)
	kv := &failingKV{KV: s}
	ledger := NewSessions(kv, quietLogger())
	ledger.Append(60)

	kv.failSet = true
	if _, err := ledger.Append(120); !errors.Is(err, errDiskFull) {
		t.Fatalf("expected wrapped disk error, got %v", err)
	}
	if n := len(ledger.ListAll()); n != 1 {
		t.Fatalf("failed append must not persist, got %d sessions", n)
	}
}

// ============================================================
// Preferences
// ============================================================

func TestPreferencesDefaults(t *testing.T) {
	s := newTestStore(t)
	p := NewPreferencesStore(s, quietLogger())

	got := p.Read()
	if got != DefaultPreferences() {
		t.Fatalf("expected defaults, got %+v", got)
	}
	if !got.SoundEnabled || got.NotificationsEnabled || got.DarkMode || got.DailyGoalMinutes != 60 {
		t.Fatalf("unexpected default values: %+v", got)
	}
}

func TestPreferencesMergeOlderSchema(t *testing.T) {
	s := newTestStore(t)
	// Written before dailyGoalMinutes existed.
	s.Set(PreferencesKey, `{"soundEnabled":false,"darkMode":true}`)
	p := NewPreferencesStore(s, quietLogger())

	got := p.Read()
	if got.SoundEnabled || !got.DarkMode {
		t.Fatalf("stored fields lost: %+v", got)
	}
	if got.DailyGoalMinutes != DefaultDailyGoalMinutes {
		t.Fatalf("missing field should take default, got %d", got.DailyGoalMinutes)
	}
}

func TestPreferencesMergeFieldByField(t *testing.T) {
	s := newTestStore(t)
	s.Set(PreferencesKey, `{"soundEnabled":false,"notificationsEnabled":"yes","darkMode":true,"dailyGoalMinutes":45.5}`)
	p := NewPreferencesStore(s, quietLogger())

	got := p.Read()
	want := Preferences{SoundEnabled: false, NotificationsEnabled: false, DarkMode: true, DailyGoalMinutes: 46}
	if got != want {
		t.Fatalf("Read() = %+v, want %+v", got, want)
	}
}

func TestPreferencesBadGoalKeepsOtherFields(t *testing.T) {
	s := newTestStore(t)
	s.Set(PreferencesKey, `{"soundEnabled":false,"darkMode":true,"dailyGoalMinutes":"lots"}`)
	p := NewPreferencesStore(s, quietLogger())

	got := p.Read()
	if got.SoundEnabled || !got.DarkMode || got.DailyGoalMinutes != DefaultDailyGoalMinutes {
		t.Fatalf("unexpected prefs %+v", got)
	}
}

func TestPreferencesCorrupt(t *testing.T) {
	s := newTestStore(t)
	s.Set(PreferencesKey, "][")
	p := NewPreferencesStore(s, quietLogger())
	if got := p.Read(); got != DefaultPreferences() {
		t.Fatalf("expected defaults for corrupt data, got %+v", got)
	}
}

func TestPreferencesOutOfRangeGoalOnRead(t *testing.T) {
	s := newTestStore(t)
	s.Set(PreferencesKey, `{"dailyGoalMinutes":-3}`)
	p := NewPreferencesStore(s, quietLogger())
	if got := p.Read().DailyGoalMinutes; got != DefaultDailyGoalMinutes {
		t.Fatalf("expected default goal, got %d", got)
	}
}

func TestPreferencesPartialWrite(t *testing.T) {
	s := newTestStore(t)
	p := NewPreferencesStore(s, quietLogger())

	dark := true
	if _, err := p.Write(PreferencesPatch{DarkMode: &dark}); err != nil {
		t.Fatal(err)
	}
	goal := 90
	if _, err := p.Write(PreferencesPatch{DailyGoalMinutes: &goal}); err != nil {
		t.Fatal(err)
	}

	got := p.Read()
	if !got.DarkMode || got.DailyGoalMinutes != 90 || !got.SoundEnabled {
		t.Fatalf("partial writes did not merge: %+v", got)
	}
}

func TestPreferencesToggles(t *testing.T) {
	s := newTestStore(t)
	p := NewPreferencesStore(s, quietLogger())

	p.ToggleSound()
	p.ToggleNotifications()
	p.ToggleDarkMode()
	got := p.Read()
	if got.SoundEnabled || !got.NotificationsEnabled || !got.DarkMode {
		t.Fatalf("toggles not applied: %+v", got)
	}

	p.ToggleSound()
	if !p.Read().SoundEnabled {
		t.Fatal("second toggle should restore sound")
	}
}

func TestSetDailyGoalMinutes(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{45, 45},
		{44.5, 45},
		{44.4, 44},
		{0, DefaultDailyGoalMinutes},
		{-10, DefaultDailyGoalMinutes},
		{0.2, MinDailyGoalMinutes},
		{0.4, MinDailyGoalMinutes},
		{0.6, MinDailyGoalMinutes},
		{1.4, 1},
		{1.6, 2},
		{math.NaN(), DefaultDailyGoalMinutes},
		{math.Inf(1), DefaultDailyGoalMinutes},
		{5000, MaxDailyGoalMinutes},
	}
	for _, tt := range tests {
		s := newTestStore(t)
		p := NewPreferencesStore(s, quietLogger())
		got, err := p.SetDailyGoalMinutes(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got.DailyGoalMinutes != tt.want {
			t.Errorf("SetDailyGoalMinutes(%v) = %d, want %d", tt.in, got.DailyGoalMinutes, tt.want)
		}
		if p.Read().DailyGoalMinutes != tt.want {
			t.Errorf("SetDailyGoalMinutes(%v) not persisted", tt.in)
		}
	}
}

func TestPreferencesReset(t *testing.T) {
	s := newTestStore(t)
	p := NewPreferencesStore(s, quietLogger())
	p.ToggleDarkMode()
	p.SetDailyGoalMinutes(200)

	got, err := p.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if got != DefaultPreferences() || p.Read() != DefaultPreferences() {
		t.Fatalf("reset did not restore defaults: %+v", p.Read())
	}
}

func TestPreferencesSubscribe(t *testing.T) {
	s := newTestStore(t)
	p := NewPreferencesStore(s, quietLogger())

	var calls []Preferences
	unsubscribe := p.Subscribe(func(prefs Preferences) {
		calls = append(calls, prefs)
	})

	p.ToggleDarkMode()
	if len(calls) != 1 || !calls[0].DarkMode {
		t.Fatalf("expected one notification with dark mode on, got %+v", calls)
	}

	unsubscribe()
	unsubscribe()
	p.ToggleDarkMode()
	if len(calls) != 1 {
		t.Fatalf("unsubscribed listener was called: %d calls", len(calls))
	}
}

func TestPreferencesSubscribeOrder(t *testing.T) {
	s := newTestStore(t)
	p := NewPreferencesStore(s, quietLogger())

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		p.Subscribe(func(Preferences) { order = append(order, i) })
	}
	p.ToggleSound()
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("listeners not called in registration order: %v", order)
	}
}

func TestPreferencesWriteFailureKeepsState(t *testing.T) {
	s := newTestStore(t)
	kv := &failingKV{KV: s}
	p := NewPreferencesStore(kv, quietLogger())

	notified := false
	p.Subscribe(func(Preferences) { notified = true })

	kv.failSet = true
	got, err := p.ToggleDarkMode()
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected disk error, got %v", err)
	}
	if got.DarkMode || p.Read().DarkMode {
		t.Fatal("failed write should leave the setting unchanged")
	}
	if notified {
		t.Fatal("subscribers should not hear about failed writes")
	}
}

// ============================================================
// Achievement unlocks
// ============================================================

func TestUnlocksEmpty(t *testing.T) {
	s := newTestStore(t)
	u := NewUnlocks(s, quietLogger())
	rec := u.Load()
	if len(rec.UnlockedIDs) != 0 || rec.UnlockedDates == nil {
		t.Fatalf("unexpected empty record: %+v", rec)
	}
}

func TestMarkUnlockedIdempotent(t *testing.T) {
	s := newTestStore(t)
	u := NewUnlocks(s, quietLogger())

	first := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	added, err := u.MarkUnlocked("first_session", first)
	if err != nil || !added {
		t.Fatalf("first unlock: added=%v err=%v", added, err)
	}

	added, err = u.MarkUnlocked("first_session", first.Add(48*time.Hour))
	if err != nil || added {
		t.Fatalf("second unlock should be a no-op: added=%v err=%v", added, err)
	}

	rec := u.Load()
	if len(rec.UnlockedIDs) != 1 {
		t.Fatalf("expected 1 id, got %v", rec.UnlockedIDs)
	}
	if !rec.UnlockedDates["first_session"].Equal(first) {
		t.Fatalf("unlock was re-timestamped: %v", rec.UnlockedDates["first_session"])
	}
}

func TestUnlocksCorrupt(t *testing.T) {
	s := newTestStore(t)
	s.Set(AchievementsKey, "nope")
	u := NewUnlocks(s, quietLogger())
	if rec := u.Load(); len(rec.UnlockedIDs) != 0 {
		t.Fatalf("corrupt record should read as empty, got %+v", rec)
	}
}

func TestUnlocksWriteFailure(t *testing.T) {
	s := newTestStore(t)
	kv := &failingKV{KV: s, failSet: true}
	u := NewUnlocks(kv, quietLogger())

	added, err := u.MarkUnlocked("first_session", time.Now())
	if err == nil || added {
		t.Fatalf("expected failure, got added=%v err=%v", added, err)
	}
	if u.Load().Has("first_session") {
		t.Fatal("failed unlock must not be recorded")
	}
}

// ============================================================
// Focus duration
// ============================================================

func TestFocusDurationDefault(t *testing.T) {
	s := newTestStore(t)
	f := NewFocusDuration(s, quietLogger())
	if got := f.Load(); got != DefaultFocusMinutes {
		t.Fatalf("expected %d, got %d", DefaultFocusMinutes, got)
	}
}

func TestFocusDurationSaveLoad(t *testing.T) {
	s := newTestStore(t)
	f := NewFocusDuration(s, quietLogger())
	if err := f.Save(45); err != nil {
		t.Fatal(err)
	}
	if got := f.Load(); got != 45 {
		t.Fatalf("expected 45, got %d", got)
	}
}

func TestFocusDurationInvalidStored(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-4", "9999", ""} {
		s := newTestStore(t)
		s.Set(DurationKey, raw)
		f := NewFocusDuration(s, quietLogger())
		if got := f.Load(); got != DefaultFocusMinutes {
			t.Errorf("stored %q: expected default, got %d", raw, got)
		}
	}
}
