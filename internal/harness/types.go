package harness

// Trace event types.
const (
	EventRequest = "request"
	EventChange  = "change"
)

// OutcomeOK marks a request that returned no fault.
const OutcomeOK = "ok"

// TraceEvent is one entry of a scenario trace.
type TraceEvent struct {
	Type     string `json:"type"` // "request" or "change"
	Seq      int64  `json:"seq"`
	Op       string `json:"op,omitempty"`
	Address  string `json:"address"`
	Outcome  string `json:"outcome,omitempty"`
	Count    *int64 `json:"count,omitempty"`
	Inserted *bool  `json:"inserted,omitempty"`
	Item     string `json:"item,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	// Trace contains requests and changes in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Changes is the number of change notifications during the flow.
	Changes int `json:"changes"`

	// BackupMarks is the number of backup marks during the flow.
	BackupMarks int `json:"backup_marks"`

	seq int64
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addEvent appends e with the next sequence number.
func (r *Result) addEvent(e TraceEvent) {
	r.seq++
	e.Seq = r.seq
	r.Trace = append(r.Trace, e)
}
