package contracts

import (
	"context"

	"exostandards/domain/standards"
)

// LogSink receives framework log entries.
type LogSink interface {
	LogMessage(ctx context.Context, entry standards.LogEntry) error
}

// AlertSink receives standards alerts.
type AlertSink interface {
	RaiseStandardsAlert(ctx context.Context, alert standards.Alert) error
}

// ReportSink stores compliance report fields.
type ReportSink interface {
	// RecordComplianceField stores a best-practice analyser field.
	RecordComplianceField(ctx context.Context, tenant, field string, value any, storeAs standards.StoreAs) error

	// SetComparableField stores the field used for drift comparison.
	SetComparableField(ctx context.Context, tenant, field string, value any) error
}

// LogReader lists stored log entries for a tenant, newest first.
type LogReader interface {
	ListByTenant(ctx context.Context, tenant string, limit int) ([]standards.LogEntry, error)
}

// AlertReader lists stored alerts for a tenant, newest first.
type AlertReader interface {
	ListByTenant(ctx context.Context, tenant string, limit int) ([]standards.Alert, error)
}

// ComplianceReader lists stored compliance fields for a tenant.
type ComplianceReader interface {
	ListBPAFields(ctx context.Context, tenant string) ([]standards.ComplianceField, error)
	ListComparableFields(ctx context.Context, tenant string) ([]standards.ComplianceField, error)
}
