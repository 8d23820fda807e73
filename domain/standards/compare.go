package standards

// PlanEvaluation is the comparison detail for one plan.
type PlanEvaluation struct {
	Plan         MailboxPlan `json:"plan"`
	SendBytes    int64       `json:"send_bytes"`
	ReceiveBytes int64       `json:"receive_bytes"`
	Conforming   bool        `json:"conforming"`
	ParseError   string      `json:"parse_error,omitempty"`
}

// Evaluate compares every plan against limits, preserving input order.
// A plan whose sizes cannot be parsed is non-conforming.
func Evaluate(plans []MailboxPlan, limits Limits) []PlanEvaluation {
	evaluations := make([]PlanEvaluation, 0, len(plans))
	for _, plan := range plans {
		eval := PlanEvaluation{Plan: plan}

		send, sendErr := ParseByteSize(plan.MaxSendSize)
		receive, receiveErr := ParseByteSize(plan.MaxReceiveSize)
		eval.SendBytes, eval.ReceiveBytes = send, receive

		switch {
		case sendErr != nil:
			eval.ParseError = "MaxSendSize: " + sendErr.Error()
		case receiveErr != nil:
			eval.ParseError = "MaxReceiveSize: " + receiveErr.Error()
		default:
			eval.Conforming = send == limits.MaxSendBytes && receive == limits.MaxReceiveBytes
		}

		evaluations = append(evaluations, eval)
	}
	return evaluations
}

// NonConforming returns the plans that need remediation, in evaluation order.
func NonConforming(evaluations []PlanEvaluation) []MailboxPlan {
	plans := make([]MailboxPlan, 0)
	for _, eval := range evaluations {
		if !eval.Conforming {
			plans = append(plans, eval.Plan)
		}
	}
	return plans
}
