package application

import (
	"context"
	"time"

	"exostandards/domain/contracts"
	"exostandards/domain/standards"
)

// DefaultHistoryLimit bounds how many log entries and alerts an overview returns.
const DefaultHistoryLimit = 50

// TenantComplianceData is the stored compliance picture for one tenant.
type TenantComplianceData struct {
	Tenant           string
	BPAFields        []standards.ComplianceField
	ComparableFields []standards.ComplianceField
	RecentAlerts     []standards.Alert
	RecentLogs       []standards.LogEntry
	// Conforming is nil when the standard has never reported for the tenant.
	Conforming  *bool
	LastAlertAt *time.Time
}

// TenantComplianceService reads back what standard runs recorded.
type TenantComplianceService struct {
	logs       contracts.LogReader
	alerts     contracts.AlertReader
	compliance contracts.ComplianceReader
}

// NewTenantComplianceService creates a new tenant compliance service.
func NewTenantComplianceService(
	logs contracts.LogReader,
	alerts contracts.AlertReader,
	compliance contracts.ComplianceReader,
) *TenantComplianceService {
	return &TenantComplianceService{
		logs:       logs,
		alerts:     alerts,
		compliance: compliance,
	}
}

// GetTenantCompliance gathers fields, alerts and logs for tenant.
func (s *TenantComplianceService) GetTenantCompliance(ctx context.Context, tenant string) (*TenantComplianceData, error) {
	if tenant == "" {
		return nil, contracts.ErrTenantRequired
	}

	bpa, err := s.compliance.ListBPAFields(ctx, tenant)
	if err != nil {
		return nil, err
	}

	comparable, err := s.compliance.ListComparableFields(ctx, tenant)
	if err != nil {
		return nil, err
	}

	alerts, err := s.alerts.ListByTenant(ctx, tenant, DefaultHistoryLimit)
	if err != nil {
		return nil, err
	}

	logs, err := s.logs.ListByTenant(ctx, tenant, DefaultHistoryLimit)
	if err != nil {
		return nil, err
	}

	data := &TenantComplianceData{
		Tenant:           tenant,
		BPAFields:        bpa,
		ComparableFields: comparable,
		RecentAlerts:     alerts,
		RecentLogs:       logs,
	}

	for _, field := range comparable {
		if field.Name == standards.CompareFieldName {
			conforming := field.Value == true
			data.Conforming = &conforming
		}
	}

	if len(alerts) > 0 {
		last := alerts[0].CreatedAt
		data.LastAlertAt = &last
	}

	return data, nil
}

// ListLogs returns recent log entries for tenant.
func (s *TenantComplianceService) ListLogs(ctx context.Context, tenant string, limit int) ([]standards.LogEntry, error) {
	return s.logs.ListByTenant(ctx, tenant, clampLimit(limit))
}

// ListAlerts returns recent alerts for tenant.
func (s *TenantComplianceService) ListAlerts(ctx context.Context, tenant string, limit int) ([]standards.Alert, error) {
	return s.alerts.ListByTenant(ctx, tenant, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return DefaultHistoryLimit
	}
	return limit
}
