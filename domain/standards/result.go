package standards

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeSkipped         Outcome = "skipped"
	OutcomeValidationError Outcome = "validation_error"
	OutcomeReadError       Outcome = "read_error"
	OutcomeWriteError      Outcome = "write_error"
)

// Result is the explicit outcome of one standard run for one tenant.
type Result struct {
	Outcome       Outcome          `json:"outcome"`
	Tenant        string           `json:"tenant"`
	Standard      string           `json:"standard"`
	Settings      Settings         `json:"settings"`
	Limits        Limits           `json:"limits"`
	Evaluations   []PlanEvaluation `json:"evaluations,omitempty"`
	NonConforming []MailboxPlan    `json:"non_conforming"`
	Updated       int              `json:"updated"`
	Alerted       bool             `json:"alerted"`
	Reported      bool             `json:"reported"`
	Warnings      []string         `json:"warnings,omitempty"`
	Err           error            `json:"-"`
}

// NewResult starts a result for tenant.
func NewResult(tenant string) *Result {
	return &Result{
		Outcome:       OutcomeSuccess,
		Tenant:        tenant,
		Standard:      StandardName,
		NonConforming: []MailboxPlan{},
	}
}

// Fail records a terminal outcome and its cause.
func (r *Result) Fail(outcome Outcome, err error) *Result {
	r.Outcome = outcome
	r.Err = err
	return r
}

// Succeeded is true for success and skipped runs.
func (r *Result) Succeeded() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomeSkipped
}

// Conforming is true when every plan already matched the desired limits.
func (r *Result) Conforming() bool {
	return len(r.NonConforming) == 0
}

// ErrorMessage returns the failure message, or an empty string.
func (r *Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
