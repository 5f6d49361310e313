package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Unlocks persists which achievements have been unlocked and when.
type Unlocks struct {
	kv KV
	l  *log.Logger
}

func NewUnlocks(kv KV, logger *log.Logger) *Unlocks {
	if logger == nil {
		logger = log.Default()
	}
	return &Unlocks{kv: kv, l: logger}
}

// Load returns the unlock record; missing or corrupt data reads as empty.
func (u *Unlocks) Load() UnlockRecord {
	empty := UnlockRecord{UnlockedIDs: []string{}, UnlockedDates: map[string]time.Time{}}

	raw, err := u.kv.Get(AchievementsKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			u.l.Warn("reading achievements", "err", err)
		}
		return empty
	}

	var rec UnlockRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		u.l.Warn("discarding corrupt achievement record", "err", err)
		return empty
	}
	if rec.UnlockedIDs == nil {
		rec.UnlockedIDs = []string{}
	}
	if rec.UnlockedDates == nil {
		rec.UnlockedDates = map[string]time.Time{}
	}
	return rec
}

// MarkUnlocked records id as unlocked at the given time. The first unlock
// wins: an id already present is left untouched and added is false.
func (u *Unlocks) MarkUnlocked(id string, at time.Time) (added bool, err error) {
	rec := u.Load()
	if rec.Has(id) {
		return false, nil
	}

	rec.UnlockedIDs = append(rec.UnlockedIDs, id)
	rec.UnlockedDates[id] = at.UTC()

	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("encode achievements: %w", err)
	}
	if err := u.kv.Set(AchievementsKey, string(data)); err != nil {
		u.l.Error("saving achievement unlock", "id", id, "err", err)
		return false, fmt.Errorf("save achievement %q: %w", id, err)
	}
	return true, nil
}
