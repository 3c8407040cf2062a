package commands

// Outcome is the result of processing one item (file, receipt or job).
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeFailed
	// OutcomeSkipped marks an upload refused because the receipt already
	// carries an archive id and force was not given.
	OutcomeSkipped
	// OutcomePending marks a job that has not finished yet.
	OutcomePending
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomePending:
		return "pending"
	default:
		return "unknown"
	}
}

// Tally counts item outcomes for the summary banner.
type Tally struct {
	Completed int
	Failed    int
	Skipped   int
	Pending   int
	Bytes     int64
}

// Add counts one outcome.
func (t *Tally) Add(o Outcome) {
	switch o {
	case OutcomeCompleted:
		t.Completed++
	case OutcomeFailed:
		t.Failed++
	case OutcomeSkipped:
		t.Skipped++
	case OutcomePending:
		t.Pending++
	}
}

// Total returns the number of items counted.
func (t Tally) Total() int {
	return t.Completed + t.Failed + t.Skipped + t.Pending
}

// ItemResult records what happened to one item.
type ItemResult struct {
	Item    string
	Outcome Outcome
	Err     error
}
