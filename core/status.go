package core

import "fmt"

// Status is the ingestion state of a document. Transitions run strictly
// forward through the pipeline stages; Failed is reachable from any
// non-terminal state and is terminal, as is Complete.
type Status int

const (
	StatusPending Status = iota + 1
	StatusChunking
	StatusEmbedding
	StatusIndexing
	StatusComplete
	StatusFailed
)

var statusNames = map[Status]string{
	StatusPending:   "PENDING",
	StatusChunking:  "CHUNKING",
	StatusEmbedding: "EMBEDDING",
	StatusIndexing:  "INDEXING",
	StatusComplete:  "COMPLETE",
	StatusFailed:    "FAILED",
}

// statusTransitions is the allowed transition table for the ingestion state
// machine. There are no cycles and no backward edges.
var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusChunking, StatusFailed},
	StatusChunking:  {StatusEmbedding, StatusComplete, StatusFailed},
	StatusEmbedding: {StatusIndexing, StatusFailed},
	StatusIndexing:  {StatusComplete, StatusFailed},
	StatusComplete:  {},
	StatusFailed:    {},
}

// String returns the canonical name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// CanTransition reports whether the state machine permits moving from s to
// next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates and performs a state change, returning the new status.
// An illegal transition is a programming error surfaced as ErrInvalidTransition.
func (s Status) Transition(next Status) (Status, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}
