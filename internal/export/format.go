package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/studybuddy/internal/store"
)

type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Write exports sessions to path in format f.
func Write(f Format, sessions []store.StudySession, now time.Time, path string) error {
	switch f {
	case CSV:
		return ToCSV(sessions, path)
	case JSON:
		return ToJSON(sessions, now, path)
	case YAML:
		return ToYAML(sessions, now, path)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// DefaultFilename is studybuddy-<date>.<ext> for now's calendar day.
func DefaultFilename(f Format, now time.Time) string {
	return fmt.Sprintf("studybuddy-%s.%s", now.Format("2006-01-02"), f)
}
