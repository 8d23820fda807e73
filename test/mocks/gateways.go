package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"exostandards/domain/standards"
)

// MockLicenseChecker implements LicenseChecker for testing
type MockLicenseChecker struct {
	mock.Mock
}

func (m *MockLicenseChecker) HasCapability(ctx context.Context, tenant string, capabilities []string) (bool, error) {
	args := m.Called(ctx, tenant, capabilities)
	return args.Bool(0), args.Error(1)
}

// MockMailboxPlanGateway implements MailboxPlanGateway for testing
type MockMailboxPlanGateway struct {
	mock.Mock
}

func (m *MockMailboxPlanGateway) ListMailboxPlans(ctx context.Context, tenant string) ([]standards.MailboxPlan, error) {
	args := m.Called(ctx, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]standards.MailboxPlan), args.Error(1)
}

func (m *MockMailboxPlanGateway) UpdateMailboxPlan(ctx context.Context, tenant, guid string, limits standards.Limits, elevated bool) error {
	args := m.Called(ctx, tenant, guid, limits, elevated)
	return args.Error(0)
}

// MockErrorNormalizer implements ErrorNormalizer for testing
type MockErrorNormalizer struct {
	mock.Mock
}

func (m *MockErrorNormalizer) Normalize(err error) string {
	args := m.Called(err)
	return args.String(0)
}
