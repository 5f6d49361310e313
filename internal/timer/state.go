package timer

type Mode int

const (
	Countdown Mode = iota
	Stopwatch
)

func (m Mode) String() string {
	switch m {
	case Countdown:
		return "timer"
	case Stopwatch:
		return "stopwatch"
	}
	return "unknown"
}

type State int

const (
	Idle State = iota
	Focusing
	Paused
	Completed
	Break
)

var stateNames = map[State]string{
	Idle:      "idle",
	Focusing:  "focusing",
	Paused:    "paused",
	Completed: "completed",
	Break:     "break",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

type EventKind int

const (
	EventStarted EventKind = iota
	EventPaused
	EventResumed
	EventCompleted
	EventFinished
	EventBreakStarted
	EventBreakOver
	EventReset
)

var eventNames = map[EventKind]string{
	EventStarted:      "started",
	EventPaused:       "paused",
	EventResumed:      "resumed",
	EventCompleted:    "completed",
	EventFinished:     "finished",
	EventBreakStarted: "break_started",
	EventBreakOver:    "break_over",
	EventReset:        "reset",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}
