package runmonitor

// Step constants for the run monitor screen
const (
	StepConsole = iota
	StepDeals
)

// DefaultWidth is the default terminal width fallback
const DefaultWidth = 80

// DefaultHeight is the default terminal height fallback
const DefaultHeight = 24
