package presenters

import (
	"io"

	"exostandards/application"
	"exostandards/domain/standards"
)

// StandardPresenterInterface defines the contract for standard result presentation.
type StandardPresenterInterface interface {
	FormatRunResult(result *standards.Result) *RunResultView
	StatusCode(result *standards.Result) int
	WriteRunResultText(w io.Writer, view *RunResultView) error
	FormatCompliance(data *application.TenantComplianceData) *ComplianceView
}

// Ensure StandardPresenter implements the interface.
var _ StandardPresenterInterface = (*StandardPresenter)(nil)
