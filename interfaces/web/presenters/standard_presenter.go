package presenters

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"exostandards/application"
	"exostandards/domain/standards"
)

// RunResultView is the response body for one standard run.
type RunResultView struct {
	Tenant         string     `json:"tenant"`
	Standard       string     `json:"standard"`
	Outcome        string     `json:"outcome"`
	Success        bool       `json:"success"`
	Error          string     `json:"error,omitempty"`
	SendLimitMB    int        `json:"send_limit_mb"`
	ReceiveLimitMB int        `json:"receive_limit_mb"`
	Plans          []PlanView `json:"plans"`
	NonConforming  int        `json:"non_conforming"`
	Updated        int        `json:"updated"`
	Alerted        bool       `json:"alerted"`
	Reported       bool       `json:"reported"`
	Warnings       []string   `json:"warnings,omitempty"`
}

// PlanView is one evaluated mailbox plan.
type PlanView struct {
	DisplayName    string `json:"display_name"`
	GUID           string `json:"guid"`
	MaxSendSize    string `json:"max_send_size"`
	MaxReceiveSize string `json:"max_receive_size"`
	Conforming     bool   `json:"conforming"`
	ParseError     string `json:"parse_error,omitempty"`
}

// LogEntryView is a stored log entry formatted for display.
type LogEntryView struct {
	ID        int64  `json:"id"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	CreatedAt string `json:"created_at"`
}

// AlertView is a stored alert formatted for display.
type AlertView struct {
	ID         string `json:"id"`
	Standard   string `json:"standard"`
	StandardID string `json:"standard_id,omitempty"`
	Message    string `json:"message"`
	Object     any    `json:"object"`
	CreatedAt  string `json:"created_at"`
}

// FieldView is a stored compliance field.
type FieldView struct {
	Name      string `json:"name"`
	StoreAs   string `json:"store_as,omitempty"`
	Value     any    `json:"value"`
	UpdatedAt string `json:"updated_at"`
}

// ComplianceView summarises what standards recorded for a tenant.
type ComplianceView struct {
	Tenant           string         `json:"tenant"`
	Status           string         `json:"status"`
	LastAlertAt      string         `json:"last_alert_at,omitempty"`
	BPAFields        []FieldView    `json:"bpa_fields"`
	ComparableFields []FieldView    `json:"comparable_fields"`
	RecentAlerts     []AlertView    `json:"recent_alerts"`
	RecentLogs       []LogEntryView `json:"recent_logs"`
}

// StandardPresenter transforms standard results and stored records into response views.
type StandardPresenter struct{}

// NewStandardPresenter creates a standard presenter.
func NewStandardPresenter() *StandardPresenter {
	return &StandardPresenter{}
}

// FormatRunResult converts a run result to its view model.
func (p *StandardPresenter) FormatRunResult(result *standards.Result) *RunResultView {
	if result == nil {
		return nil
	}

	view := &RunResultView{
		Tenant:         result.Tenant,
		Standard:       result.Standard,
		Outcome:        string(result.Outcome),
		Success:        result.Succeeded(),
		Error:          result.ErrorMessage(),
		SendLimitMB:    result.Settings.SendLimitMB,
		ReceiveLimitMB: result.Settings.ReceiveLimitMB,
		Plans:          make([]PlanView, 0, len(result.Evaluations)),
		NonConforming:  len(result.NonConforming),
		Updated:        result.Updated,
		Alerted:        result.Alerted,
		Reported:       result.Reported,
		Warnings:       result.Warnings,
	}

	for _, eval := range result.Evaluations {
		view.Plans = append(view.Plans, PlanView{
			DisplayName:    eval.Plan.DisplayName,
			GUID:           eval.Plan.GUID,
			MaxSendSize:    eval.Plan.MaxSendSize,
			MaxReceiveSize: eval.Plan.MaxReceiveSize,
			Conforming:     eval.Conforming,
			ParseError:     eval.ParseError,
		})
	}

	return view
}

// StatusCode maps a run outcome to an HTTP status.
func (p *StandardPresenter) StatusCode(result *standards.Result) int {
	switch result.Outcome {
	case standards.OutcomeSuccess, standards.OutcomeSkipped:
		return http.StatusOK
	case standards.OutcomeValidationError:
		return http.StatusUnprocessableEntity
	case standards.OutcomeReadError, standards.OutcomeWriteError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteRunResultText renders a run result as a plain text table.
func (p *StandardPresenter) WriteRunResultText(w io.Writer, view *RunResultView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Tenant:\t%s\n", view.Tenant)
	fmt.Fprintf(tw, "Standard:\t%s\n", view.Standard)
	fmt.Fprintf(tw, "Outcome:\t%s\n", view.Outcome)
	if view.Error != "" {
		fmt.Fprintf(tw, "Error:\t%s\n", view.Error)
	}
	fmt.Fprintf(tw, "Limits:\tsend %dMB, receive %dMB\n", view.SendLimitMB, view.ReceiveLimitMB)
	fmt.Fprintf(tw, "Drifted:\t%d of %d plans, %d updated\n", view.NonConforming, len(view.Plans), view.Updated)

	if len(view.Plans) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "PLAN\tSEND\tRECEIVE\tSTATUS")
		for _, plan := range view.Plans {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", plan.DisplayName, plan.MaxSendSize, plan.MaxReceiveSize, planStatus(plan))
		}
	}

	for _, warning := range view.Warnings {
		fmt.Fprintf(tw, "warning:\t%s\n", warning)
	}

	return tw.Flush()
}

func planStatus(plan PlanView) string {
	switch {
	case plan.ParseError != "":
		return "unparseable"
	case plan.Conforming:
		return "ok"
	default:
		return "drifted"
	}
}

// FormatLogs converts stored log entries to views.
func (p *StandardPresenter) FormatLogs(entries []standards.LogEntry) []LogEntryView {
	views := make([]LogEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, LogEntryView{
			ID:        entry.ID,
			Severity:  string(entry.Severity),
			Message:   entry.Message,
			Data:      entry.Data,
			CreatedAt: formatTime(entry.CreatedAt),
		})
	}
	return views
}

// FormatAlerts converts stored alerts to views.
func (p *StandardPresenter) FormatAlerts(alerts []standards.Alert) []AlertView {
	views := make([]AlertView, 0, len(alerts))
	for _, alert := range alerts {
		views = append(views, AlertView{
			ID:         alert.ID,
			Standard:   alert.StandardName,
			StandardID: alert.StandardID,
			Message:    alert.Message,
			Object:     alert.Object,
			CreatedAt:  formatTime(alert.CreatedAt),
		})
	}
	return views
}

// FormatCompliance converts the tenant compliance picture to its view model.
func (p *StandardPresenter) FormatCompliance(data *application.TenantComplianceData) *ComplianceView {
	if data == nil {
		return nil
	}

	view := &ComplianceView{
		Tenant:           data.Tenant,
		Status:           complianceStatus(data.Conforming),
		BPAFields:        formatFields(data.BPAFields),
		ComparableFields: formatFields(data.ComparableFields),
		RecentAlerts:     p.FormatAlerts(data.RecentAlerts),
		RecentLogs:       p.FormatLogs(data.RecentLogs),
	}
	if data.LastAlertAt != nil {
		view.LastAlertAt = formatTime(*data.LastAlertAt)
	}
	return view
}

func complianceStatus(conforming *bool) string {
	switch {
	case conforming == nil:
		return "unknown"
	case *conforming:
		return "compliant"
	default:
		return "drifted"
	}
}

func formatFields(fields []standards.ComplianceField) []FieldView {
	views := make([]FieldView, 0, len(fields))
	for _, field := range fields {
		views = append(views, FieldView{
			Name:      field.Name,
			StoreAs:   string(field.StoreAs),
			Value:     field.Value,
			UpdatedAt: formatTime(field.UpdatedAt),
		})
	}
	return views
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// FormatOutcomeSummary is a one line summary used in logs and toasts.
func (p *StandardPresenter) FormatOutcomeSummary(view *RunResultView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s for %s", view.Standard, view.Outcome, view.Tenant)
	if view.NonConforming > 0 {
		fmt.Fprintf(&b, ": %d drifted, %d updated", view.NonConforming, view.Updated)
	}
	if view.Error != "" {
		fmt.Fprintf(&b, " (%s)", view.Error)
	}
	return b.String()
}
