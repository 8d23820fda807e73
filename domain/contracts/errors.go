package contracts

import "errors"

// Common errors for domain contracts
var (
	// ErrTenantRequired occurs when an operation is invoked without a tenant identifier
	ErrTenantRequired = errors.New("tenant is required")

	// ErrPlanIdentityRequired occurs when an update targets a plan without a GUID
	ErrPlanIdentityRequired = errors.New("mailbox plan identity is required")
)
