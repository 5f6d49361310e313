package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/studybuddy/internal/stats"
	"github.com/sadopc/studybuddy/internal/store"
)

type document struct {
	ExportedAt string         `json:"exported_at" yaml:"exported_at"`
	Count      int            `json:"count" yaml:"count"`
	Summary    summary        `json:"summary" yaml:"summary"`
	Sessions   []sessionEntry `json:"sessions" yaml:"sessions"`
}

type summary struct {
	TotalMinutes          int `json:"total_minutes" yaml:"total_minutes"`
	AverageSessionSeconds int `json:"average_session_seconds" yaml:"average_session_seconds"`
	LongestSessionMinutes int `json:"longest_session_minutes" yaml:"longest_session_minutes"`
	CurrentStreak         int `json:"current_streak" yaml:"current_streak"`
	LongestStreak         int `json:"longest_streak" yaml:"longest_streak"`
}

type sessionEntry struct {
	ID          string `json:"id" yaml:"id"`
	Date        string `json:"date" yaml:"date"`
	DurationSec int    `json:"duration_seconds" yaml:"duration_seconds"`
	Duration    string `json:"duration" yaml:"duration"`
}

func buildDocument(sessions []store.StudySession, now time.Time) document {
	sum := stats.Summarize(sessions, now)
	doc := document{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(sessions),
		Summary: summary{
			TotalMinutes:          sum.TotalMinutes,
			AverageSessionSeconds: sum.AverageSessionSeconds,
			LongestSessionMinutes: sum.LongestSessionMinutes,
			CurrentStreak:         sum.CurrentStreak,
			LongestStreak:         sum.LongestStreak,
		},
		Sessions: make([]sessionEntry, 0, len(sessions)),
	}

	for _, s := range sessions {
		doc.Sessions = append(doc.Sessions, sessionEntry{
			ID:          s.ID,
			Date:        s.Date.Local().Format(time.RFC3339),
			DurationSec: s.Duration,
			Duration:    formatDuration(s.Duration),
		})
	}
	return doc
}

// ToJSON writes the ledger and its summary as of now.
func ToJSON(sessions []store.StudySession, now time.Time, path string) error {
	data, err := json.MarshalIndent(buildDocument(sessions, now), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
