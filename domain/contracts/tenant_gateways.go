package contracts

import (
	"context"

	"exostandards/domain/standards"
)

// LicenseChecker reports whether a tenant holds any of a set of service plan capabilities.
type LicenseChecker interface {
	// HasCapability returns true when at least one capability is provisioned for the tenant.
	HasCapability(ctx context.Context, tenant string, capabilities []string) (bool, error)
}

// MailboxPlanGateway reads and updates tenant mailbox plans.
type MailboxPlanGateway interface {
	// ListMailboxPlans returns every mailbox plan with its current size limits.
	ListMailboxPlans(ctx context.Context, tenant string) ([]standards.MailboxPlan, error)

	// UpdateMailboxPlan applies limits to the plan identified by guid.
	// elevated routes the call through the tenant system mailbox.
	UpdateMailboxPlan(ctx context.Context, tenant, guid string, limits standards.Limits, elevated bool) error
}

// ErrorNormalizer turns service errors into a short human readable message.
type ErrorNormalizer interface {
	Normalize(err error) string
}
