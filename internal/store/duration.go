package store

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	DefaultFocusMinutes = 30
	MinFocusMinutes     = 1
	MaxFocusMinutes     = 720
)

// FocusDuration persists the selected countdown length, kept apart from the
// preferences record.
type FocusDuration struct {
	kv KV
	l  *log.Logger
}

func NewFocusDuration(kv KV, logger *log.Logger) *FocusDuration {
	if logger == nil {
		logger = log.Default()
	}
	return &FocusDuration{kv: kv, l: logger}
}

// Load returns the saved minutes, or the default when nothing valid is stored.
func (f *FocusDuration) Load() int {
	raw, err := f.kv.Get(DurationKey)
	if err != nil {
		return DefaultFocusMinutes
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < MinFocusMinutes || n > MaxFocusMinutes {
		f.l.Warn("ignoring stored focus duration", "value", raw)
		return DefaultFocusMinutes
	}
	return n
}

func (f *FocusDuration) Save(minutes int) error {
	if err := f.kv.Set(DurationKey, strconv.Itoa(minutes)); err != nil {
		f.l.Error("saving focus duration", "minutes", minutes, "err", err)
		return err
	}
	return nil
}
