package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"exostandards/domain/standards"
	"exostandards/test/mocks"
)

// MockCollaborators holds every collaborator mock a standard run needs
type MockCollaborators struct {
	Licenses   *mocks.MockLicenseChecker
	Plans      *mocks.MockMailboxPlanGateway
	Logs       *mocks.MockLogSink
	Alerts     *mocks.MockAlertSink
	Reports    *mocks.MockReportSink
	Normalizer *mocks.MockErrorNormalizer
}

// NewMockCollaborators creates a new set of collaborator mocks
func NewMockCollaborators() *MockCollaborators {
	return &MockCollaborators{
		Licenses:   &mocks.MockLicenseChecker{},
		Plans:      &mocks.MockMailboxPlanGateway{},
		Logs:       &mocks.MockLogSink{},
		Alerts:     &mocks.MockAlertSink{},
		Reports:    &mocks.MockReportSink{},
		Normalizer: &mocks.MockErrorNormalizer{},
	}
}

// ExpectLicensed sets up the eligibility gate to pass or fail for tenant
func (m *MockCollaborators) ExpectLicensed(tenant string, licensed bool) {
	m.Licenses.On("HasCapability", mock.Anything, tenant, standards.RequiredCapabilities).Return(licensed, nil)
}

// ExpectPlans sets up a successful mailbox plan listing
func (m *MockCollaborators) ExpectPlans(tenant string, plans []standards.MailboxPlan) {
	m.Plans.On("ListMailboxPlans", mock.Anything, tenant).Return(plans, nil)
}

// ExpectAnyLog accepts every log entry
func (m *MockCollaborators) ExpectAnyLog() {
	m.Logs.On("LogMessage", mock.Anything, mock.Anything).Return(nil)
}

// ExpectLog expects exactly one entry with the given severity and message
func (m *MockCollaborators) ExpectLog(tenant string, severity standards.Severity, message string) {
	m.Logs.On("LogMessage", mock.Anything, standards.LogEntry{
		API:      standards.LogAPI,
		Tenant:   tenant,
		Message:  message,
		Severity: severity,
	}).Return(nil).Once()
}

// ExpectNormalize maps any error to message
func (m *MockCollaborators) ExpectNormalize(message string) {
	m.Normalizer.On("Normalize", mock.Anything).Return(message)
}

// AssertAllExpectations verifies all mock expectations were met
func (m *MockCollaborators) AssertAllExpectations(t mock.TestingT) {
	m.Licenses.AssertExpectations(t)
	m.Plans.AssertExpectations(t)
	m.Logs.AssertExpectations(t)
	m.Alerts.AssertExpectations(t)
	m.Reports.AssertExpectations(t)
	m.Normalizer.AssertExpectations(t)
}

// Plan builds a mailbox plan with sizes in megabytes
func Plan(name string, sendMB, receiveMB int64) standards.MailboxPlan {
	return standards.MailboxPlan{
		DisplayName:    name,
		MaxSendSize:    standards.FormatByteSize(sendMB * standards.BytesPerMB),
		MaxReceiveSize: standards.FormatByteSize(receiveMB * standards.BytesPerMB),
		GUID:           fmt.Sprintf("%s-guid", name),
	}
}

// FakeTenant is an in-memory mailbox plan store that applies updates
type FakeTenant struct {
	mu      sync.Mutex
	plans   []standards.MailboxPlan
	Updates []string
}

// NewFakeTenant creates a fake tenant holding plans
func NewFakeTenant(plans ...standards.MailboxPlan) *FakeTenant {
	return &FakeTenant{plans: append([]standards.MailboxPlan(nil), plans...)}
}

func (f *FakeTenant) ListMailboxPlans(ctx context.Context, tenant string) ([]standards.MailboxPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]standards.MailboxPlan(nil), f.plans...), nil
}

func (f *FakeTenant) UpdateMailboxPlan(ctx context.Context, tenant, guid string, limits standards.Limits, elevated bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.plans {
		if f.plans[i].GUID == guid {
			f.plans[i].MaxSendSize = standards.FormatByteSize(limits.MaxSendBytes)
			f.plans[i].MaxReceiveSize = standards.FormatByteSize(limits.MaxReceiveBytes)
			f.Updates = append(f.Updates, guid)
			return nil
		}
	}
	return fmt.Errorf("mailbox plan %s not found", guid)
}

// TestContext is the context used by tests
func TestContext() context.Context {
	return context.Background()
}
