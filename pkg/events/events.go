package events

import "deal-notifier-go/pkg/models"

// Kind identifies the variant of a RunEvent
type Kind string

const (
	KindLog      Kind = "log"
	KindProgress Kind = "progress"
	KindFound    Kind = "found"
	KindStatus   Kind = "status"
	KindComplete Kind = "complete"
	KindError    Kind = "error"
)

// Level is the severity of a log line
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// ParseLevel maps a wire level to a Level. Anything unknown is info.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelWarning, LevelError, LevelSuccess:
		return Level(s)
	default:
		return LevelInfo
	}
}

// Status is the outcome a run reports before it completes
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// RunEvent is one message of a run's event stream. Kind selects which of
// the other fields are meaningful:
//
//	log      Message, Level
//	progress Processed, Total (nil when the field was absent or not a number)
//	found    Item
//	status   Status
//	complete -
//	error    Message
type RunEvent struct {
	Kind      Kind
	Message   string
	Level     Level
	Processed *int
	Total     *int
	Item      models.Item
	Status    Status
}

// Log builds a log event
func Log(level Level, message string) RunEvent {
	return RunEvent{Kind: KindLog, Level: level, Message: message}
}

// Progress builds a progress event; pass nil for a field that is not reported.
func Progress(processed, total *int) RunEvent {
	return RunEvent{Kind: KindProgress, Processed: processed, Total: total}
}

// Found builds a found event
func Found(item models.Item) RunEvent {
	return RunEvent{Kind: KindFound, Item: item}
}

// StatusOf builds a status event
func StatusOf(status Status) RunEvent {
	return RunEvent{Kind: KindStatus, Status: status}
}

// Complete builds the terminal event
func Complete() RunEvent {
	return RunEvent{Kind: KindComplete}
}

// Error builds a data-level error event
func Error(message string) RunEvent {
	return RunEvent{Kind: KindError, Message: message}
}

// Int returns a pointer to v, for building progress events.
func Int(v int) *int {
	return &v
}
