package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/studybuddy/internal/store"
)

func ToCSV(sessions []store.StudySession, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"ID", "Date", "Duration (s)", "Duration"}); err != nil {
		return err
	}

	for _, s := range sessions {
		row := []string{
			s.ID,
			s.Date.Local().Format(time.RFC3339),
			strconv.Itoa(s.Duration),
			formatDuration(s.Duration),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
