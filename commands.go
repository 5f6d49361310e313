package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/studybuddy/internal/achievement"
	"github.com/sadopc/studybuddy/internal/export"
	"github.com/sadopc/studybuddy/internal/stats"
	"github.com/sadopc/studybuddy/internal/timer"
)

func newStatsCmd(opts *options) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show study totals, streaks and today's goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer d.Close()

			now := time.Now()
			all := d.sessions.ListAll()
			sum := stats.Summarize(all, now)
			goal := stats.TodayGoal(all, now, d.prefs.Read().DailyGoalMinutes)

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Sessions\t%d\n", sum.TotalSessions)
			fmt.Fprintf(w, "Total time\t%s\n", minutes(sum.TotalMinutes))
			fmt.Fprintf(w, "Average session\t%s\n", clock(sum.AverageSessionSeconds))
			fmt.Fprintf(w, "Longest session\t%s\n", minutes(sum.LongestSessionMinutes))
			fmt.Fprintf(w, "Today\t%s in %d sessions\n", minutes(sum.TodayMinutes), sum.TodaySessions)
			fmt.Fprintf(w, "Current streak\t%d days\n", sum.CurrentStreak)
			fmt.Fprintf(w, "Longest streak\t%d days\n", sum.LongestStreak)
			fmt.Fprintf(w, "Daily goal\t%s / %s (%.0f%%)\n", minutes(goal.TodayMinutes), minutes(goal.GoalMinutes), goal.ProgressPercent())
			if err := w.Flush(); err != nil {
				return err
			}

			if days > 0 {
				fmt.Fprintln(out)
				for _, t := range stats.DailyTotals(all, now, days) {
					fmt.Fprintf(out, "%s  %s\n", t.Day.Format("Mon 2006-01-02"), minutes(t.Seconds/60))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "per-day totals to list (0 to hide)")
	return cmd
}

func newAchievementsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			for _, u := range d.achievements.Check() {
				fmt.Fprintf(out, "new: %s %s\n", u.Icon, u.Name)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, p := range d.achievements.Progress() {
				def, _ := achievement.Lookup(p.ID)
				state := fmt.Sprintf("%d/%d", p.Current, p.Requirement)
				if p.Unlocked {
					state = "unlocked " + p.UnlockedAt.Local().Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Icon, def.Name, def.Description, state)
			}
			return w.Flush()
		},
	}
}

func newGoalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "goal [minutes]",
		Short: "Show or set the daily study goal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				m, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("invalid minutes %q", args[0])
				}
				p, err := d.prefs.SetDailyGoalMinutes(m)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "daily goal set to %s\n", minutes(p.DailyGoalMinutes))
				return nil
			}

			goal := stats.TodayGoal(d.sessions.ListAll(), time.Now(), d.prefs.Read().DailyGoalMinutes)
			fmt.Fprintf(out, "%s / %s today (%.0f%%)\n", minutes(goal.TodayMinutes), minutes(goal.GoalMinutes), goal.ProgressPercent())
			if goal.IsComplete() {
				fmt.Fprintln(out, "goal reached")
			} else {
				fmt.Fprintf(out, "%s to go\n", minutes(goal.Remaining()))
			}
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions as CSV, JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			d, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer d.Close()

			now := time.Now()
			if output == "" {
				output = export.DefaultFilename(f, now)
			}
			all := d.sessions.ListAll()
			if err := export.Write(f, all, now, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d sessions to %s\n", len(all), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv|json|yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default studybuddy-<date>.<format>)")
	return cmd
}

func newFocusCmd(opts *options) *cobra.Command {
	var stopwatch bool
	var tick time.Duration

	cmd := &cobra.Command{
		Use:   "focus [minutes]",
		Short: "Run a focus session in the terminal without the UI",
		Long: "Counts down the given minutes (or the saved focus length) and records the session.\n" +
			"With --stopwatch it counts up until interrupted and records the elapsed time.\n" +
			"Interrupting a countdown discards it.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer d.Close()

			e := d.newEngine()
			if stopwatch {
				e.SetMode(timer.Stopwatch)
			}
			if len(args) == 1 {
				m, err := strconv.Atoi(args[0])
				if err != nil || !e.SetDuration(m) {
					return fmt.Errorf("minutes must be a whole number between 1 and 720, got %q", args[0])
				}
			}

			out := cmd.OutOrStdout()
			unsubscribe := e.Subscribe(func(ev timer.Event) { printEvent(out, ev) })
			defer unsubscribe()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err = timer.Drive(ctx, e, e.Start(), tick)
			if !errors.Is(err, context.Canceled) {
				return err
			}

			if e.Snapshot().Mode == timer.Stopwatch {
				e.Pause()
				if e.Finish() {
					return nil
				}
			}
			e.Reset()
			return nil
		},
	}
	cmd.Flags().BoolVar(&stopwatch, "stopwatch", false, "count up instead of down")
	cmd.Flags().DurationVar(&tick, "tick", timer.TickInterval, "tick interval")
	_ = cmd.Flags().MarkHidden("tick")
	return cmd
}

func printEvent(w io.Writer, ev timer.Event) {
	switch ev.Kind {
	case timer.EventStarted:
		fmt.Fprintf(w, "%s started\n", ev.Mode)
	case timer.EventReset:
		fmt.Fprintln(w, "discarded")
	case timer.EventCompleted, timer.EventFinished:
		if ev.Err != nil {
			fmt.Fprintf(w, "session could not be saved: %v\n", ev.Err)
			return
		}
		fmt.Fprintf(w, "session recorded: %s\n", clock(ev.Session.Duration))
		for _, u := range ev.Unlocked {
			fmt.Fprintf(w, "achievement unlocked: %s %s\n", u.Icon, u.Name)
		}
	}
}

func minutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

func clock(secs int) string {
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}
