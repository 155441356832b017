package constants

const (
	OptionA = "A"
	OptionB = "B"
	OptionC = "C"
	OptionD = "D"
)

// ValidOption reports whether label is one of the four answer labels.
func ValidOption(label string) bool {
	return label == OptionA || label == OptionB || label == OptionC || label == OptionD
}

const (
	SessionStatusRunning  = "running"
	SessionStatusFinished = "finished"
)

// Queue carrying one event per persisted attempt; the leaderboard
// aggregator consumes it as its recomputation trigger.
const QueueAttemptRecorded = "attempt.recorded"

const UnknownProfileName = "Unknown"
