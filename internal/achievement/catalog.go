// Package achievement holds the milestone catalog and decides which
// milestones the session ledger has reached.
package achievement

// Category selects which aggregate a requirement is measured against.
type Category string

const (
	Sessions    Category = "sessions"    // completed session count
	Time        Category = "time"        // total minutes studied
	Consistency Category = "consistency" // current streak in days
	Focus       Category = "focus"       // longest single session in minutes
)

type Definition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    Category
	Requirement int
}

// Catalog is grouped by category and sorted by requirement within each
// group. Check and Progress report in this order.
var Catalog = []Definition{
	{ID: "first_session", Name: "First Steps", Description: "Complete your first study session", Icon: "🌱", Category: Sessions, Requirement: 1},
	{ID: "five_sessions", Name: "Focus Master", Description: "Complete 5 study sessions", Icon: "🎯", Category: Sessions, Requirement: 5},
	{ID: "ten_sessions", Name: "Dedicated Learner", Description: "Complete 10 study sessions", Icon: "📖", Category: Sessions, Requirement: 10},
	{ID: "fifty_sessions", Name: "Study Champion", Description: "Complete 50 study sessions", Icon: "🏆", Category: Sessions, Requirement: 50},
	{ID: "hundred_sessions", Name: "Legend", Description: "Complete 100 study sessions", Icon: "👑", Category: Sessions, Requirement: 100},

	{ID: "one_hour_total", Name: "Hour Hero", Description: "Study for 1 hour total", Icon: "⏱️", Category: Time, Requirement: 60},
	{ID: "five_hours_total", Name: "Time Keeper", Description: "Study for 5 hours total", Icon: "⌛", Category: Time, Requirement: 300},
	{ID: "ten_hours_total", Name: "Time Master", Description: "Study for 10 hours total", Icon: "🕐", Category: Time, Requirement: 600},
	{ID: "fifty_hours_total", Name: "Time Lord", Description: "Study for 50 hours total", Icon: "⏰", Category: Time, Requirement: 3000},

	{ID: "three_day_streak", Name: "Getting Started", Description: "Study 3 days in a row", Icon: "🔥", Category: Consistency, Requirement: 3},
	{ID: "seven_day_streak", Name: "Consistency Champ", Description: "Study 7 days in a row", Icon: "📚", Category: Consistency, Requirement: 7},
	{ID: "fourteen_day_streak", Name: "Unstoppable", Description: "Study 14 days in a row", Icon: "💪", Category: Consistency, Requirement: 14},
	{ID: "thirty_day_streak", Name: "Monthly Master", Description: "Study 30 days in a row", Icon: "🌟", Category: Consistency, Requirement: 30},

	{ID: "thirty_min_session", Name: "Focused Mind", Description: "Complete a 30-minute session", Icon: "🧠", Category: Focus, Requirement: 30},
	{ID: "sixty_min_session", Name: "Deep Thinker", Description: "Complete a 60-minute session", Icon: "💭", Category: Focus, Requirement: 60},
	{ID: "ninety_min_session", Name: "Deep Work Hero", Description: "Complete a 90-minute session", Icon: "🦸", Category: Focus, Requirement: 90},
	{ID: "two_hour_session", Name: "Ultra Focus", Description: "Complete a 2-hour session", Icon: "⚡", Category: Focus, Requirement: 120},
}

// Lookup finds a catalog entry by id.
func Lookup(id string) (Definition, bool) {
	for _, d := range Catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
