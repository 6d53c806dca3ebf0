package harness

// TraceEvent records one step of a scenario run.
type TraceEvent struct {
	Step    int    `json:"step"`
	Date    string `json:"date"`
	Action  string `json:"action"`
	Routine string `json:"routine,omitempty"`

	// Apply counters, zero for toggle.
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`

	// Tasks lists the titles of the tasks the step created, in order.
	Tasks []string `json:"tasks,omitempty"`

	// Failures lists "routine: stage" for each routine that failed.
	Failures []string `json:"failures,omitempty"`

	// Visible is the number of tasks the view listed (today and week only).
	Visible *int `json:"visible,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace has one event per step.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
