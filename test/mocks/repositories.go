package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"exostandards/domain/standards"
)

// MockLogSink implements LogSink for testing
type MockLogSink struct {
	mock.Mock
}

func (m *MockLogSink) LogMessage(ctx context.Context, entry standards.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockAlertSink implements AlertSink for testing
type MockAlertSink struct {
	mock.Mock
}

func (m *MockAlertSink) RaiseStandardsAlert(ctx context.Context, alert standards.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

// MockReportSink implements ReportSink for testing
type MockReportSink struct {
	mock.Mock
}

func (m *MockReportSink) RecordComplianceField(ctx context.Context, tenant, field string, value any, storeAs standards.StoreAs) error {
	args := m.Called(ctx, tenant, field, value, storeAs)
	return args.Error(0)
}

func (m *MockReportSink) SetComparableField(ctx context.Context, tenant, field string, value any) error {
	args := m.Called(ctx, tenant, field, value)
	return args.Error(0)
}

// MockLogReader implements LogReader for testing
type MockLogReader struct {
	mock.Mock
}

func (m *MockLogReader) ListByTenant(ctx context.Context, tenant string, limit int) ([]standards.LogEntry, error) {
	args := m.Called(ctx, tenant, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]standards.LogEntry), args.Error(1)
}

// MockAlertReader implements AlertReader for testing
type MockAlertReader struct {
	mock.Mock
}

func (m *MockAlertReader) ListByTenant(ctx context.Context, tenant string, limit int) ([]standards.Alert, error) {
	args := m.Called(ctx, tenant, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]standards.Alert), args.Error(1)
}

// MockComplianceReader implements ComplianceReader for testing
type MockComplianceReader struct {
	mock.Mock
}

func (m *MockComplianceReader) ListBPAFields(ctx context.Context, tenant string) ([]standards.ComplianceField, error) {
	args := m.Called(ctx, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]standards.ComplianceField), args.Error(1)
}

func (m *MockComplianceReader) ListComparableFields(ctx context.Context, tenant string) ([]standards.ComplianceField, error) {
	args := m.Called(ctx, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]standards.ComplianceField), args.Error(1)
}
