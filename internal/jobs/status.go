package jobs

// Status is the lifecycle state of a job. Transitions are strictly checked;
// a request against a job in the wrong state is rejected, never queued.
type Status string

const (
	StatusReceived    Status = "RECEIVED"
	StatusExtracting  Status = "EXTRACTING"
	StatusNeedsReview Status = "NEEDS_REVIEW"
	StatusReady       Status = "READY"
	StatusIssuing     Status = "ISSUING"
	StatusIssued      Status = "ISSUED"
	StatusFailed      Status = "FAILED"
)

// transitions is the full state machine. FAILED is terminal for automation;
// nothing moves a job out of it.
var transitions = map[Status][]Status{
	StatusReceived:    {StatusExtracting, StatusFailed},
	StatusExtracting:  {StatusNeedsReview, StatusFailed},
	StatusNeedsReview: {StatusNeedsReview, StatusReady, StatusFailed},
	StatusReady:       {StatusIssuing, StatusFailed},
	StatusIssuing:     {StatusIssued, StatusFailed},
	StatusIssued:      {},
	StatusFailed:      {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether the state machine allows moving from s to
// next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
