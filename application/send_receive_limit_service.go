package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"exostandards/domain/contracts"
	"exostandards/domain/standards"
	"exostandards/logging"
)

// SendReceiveLimitService audits and remediates tenant mailbox plan size limits.
type SendReceiveLimitService interface {
	// Run executes the standard with already typed settings.
	Run(ctx context.Context, tenant string, settings standards.Settings) *standards.Result

	// RunRaw executes the standard with loosely typed caller input.
	RunRaw(ctx context.Context, tenant string, raw standards.RawSettings) *standards.Result
}

// StandardDependencies are the collaborators a standard run talks to.
type StandardDependencies struct {
	Licenses   contracts.LicenseChecker
	Plans      contracts.MailboxPlanGateway
	Logs       contracts.LogSink
	Alerts     contracts.AlertSink
	Reports    contracts.ReportSink
	Normalizer contracts.ErrorNormalizer
}

// SendReceiveLimitServiceImpl is the production implementation of SendReceiveLimitService.
type SendReceiveLimitServiceImpl struct {
	deps   StandardDependencies
	logger *logging.Logger
}

// NewSendReceiveLimitService creates the service from its collaborators.
func NewSendReceiveLimitService(deps StandardDependencies) SendReceiveLimitService {
	return &SendReceiveLimitServiceImpl{
		deps:   deps,
		logger: logging.Default().WithComponent("send_receive_limit_service"),
	}
}

// Run validates settings after the eligibility gate and executes the standard.
func (s *SendReceiveLimitServiceImpl) Run(ctx context.Context, tenant string, settings standards.Settings) *standards.Result {
	return s.run(ctx, tenant, func() (standards.Settings, error) {
		return settings, settings.Validate()
	})
}

// RunRaw converts raw input after the eligibility gate and executes the standard.
func (s *SendReceiveLimitServiceImpl) RunRaw(ctx context.Context, tenant string, raw standards.RawSettings) *standards.Result {
	return s.run(ctx, tenant, raw.ToSettings)
}

func (s *SendReceiveLimitServiceImpl) run(ctx context.Context, tenant string, resolve func() (standards.Settings, error)) *standards.Result {
	result := standards.NewResult(tenant)
	if tenant == "" {
		return result.Fail(standards.OutcomeValidationError, contracts.ErrTenantRequired)
	}

	logger := s.logger.WithContext(ctx).WithTenant(tenant)
	start := time.Now()
	defer func() {
		logger.Performance("send_receive_limit", time.Since(start),
			slog.String("outcome", string(result.Outcome)),
			slog.Int("non_conforming", len(result.NonConforming)),
			slog.Int("updated", result.Updated))
	}()

	licensed, err := s.deps.Licenses.HasCapability(ctx, tenant, standards.RequiredCapabilities)
	if err != nil {
		s.logEntry(ctx, tenant, standards.SeverityError,
			fmt.Sprintf("Could not verify the license state for %s. Error: %s", tenant, s.deps.Normalizer.Normalize(err)))
		return result.Fail(standards.OutcomeReadError, fmt.Errorf("check license: %w", err))
	}
	if !licensed {
		logger.Debug("tenant lacks the required capabilities, skipping standard")
		result.Outcome = standards.OutcomeSkipped
		return result
	}

	settings, err := resolve()
	result.Settings = settings
	if err != nil {
		s.logEntry(ctx, tenant, standards.SeverityError, err.Error())
		return result.Fail(standards.OutcomeValidationError, err)
	}

	limits := settings.Limits()
	result.Limits = limits

	plans, err := s.deps.Plans.ListMailboxPlans(ctx, tenant)
	if err != nil {
		s.logEntry(ctx, tenant, standards.SeverityError,
			fmt.Sprintf("Could not get the SendReceiveLimit state for %s. Error: %s", tenant, s.deps.Normalizer.Normalize(err)))
		return result.Fail(standards.OutcomeReadError, fmt.Errorf("list mailbox plans: %w", err))
	}

	result.Evaluations = standards.Evaluate(plans, limits)
	result.NonConforming = standards.NonConforming(result.Evaluations)
	for _, eval := range result.Evaluations {
		if eval.ParseError != "" {
			logger.Warn("mailbox plan size could not be parsed", "plan", eval.Plan.DisplayName, "error", eval.ParseError)
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", eval.Plan.DisplayName, eval.ParseError))
		}
	}

	// Alerting and reporting below use the pre-remediation list.
	if settings.Remediate {
		s.remediate(ctx, result, limits)
	}
	if settings.Alert {
		s.alert(ctx, result, settings)
	}
	if settings.Report {
		s.report(ctx, result)
	}

	return result
}

// remediate updates plans in order and stops at the first failure. Applied updates stay applied.
func (s *SendReceiveLimitServiceImpl) remediate(ctx context.Context, result *standards.Result, limits standards.Limits) {
	tenant := result.Tenant
	if result.Conforming() {
		s.logEntry(ctx, tenant, standards.SeverityInfo, standards.MsgAlreadyCorrect)
		return
	}

	for _, plan := range result.NonConforming {
		if plan.GUID == "" {
			s.remediationFailed(ctx, result, fmt.Errorf("update %q: %w", plan.DisplayName, contracts.ErrPlanIdentityRequired))
			return
		}
		if err := s.deps.Plans.UpdateMailboxPlan(ctx, tenant, plan.GUID, limits, true); err != nil {
			s.remediationFailed(ctx, result, fmt.Errorf("update %q: %w", plan.DisplayName, err))
			return
		}
		result.Updated++
	}

	s.logEntry(ctx, tenant, standards.SeverityInfo,
		fmt.Sprintf("Successfully set the tenant send(%dMB) and receive(%dMB) limits", limits.SendMB(), limits.ReceiveMB()))
}

func (s *SendReceiveLimitServiceImpl) remediationFailed(ctx context.Context, result *standards.Result, err error) {
	s.logEntry(ctx, result.Tenant, standards.SeverityError, standards.MsgSetFailedPrefix+s.deps.Normalizer.Normalize(err))
	result.Fail(standards.OutcomeWriteError, err)
}

func (s *SendReceiveLimitServiceImpl) alert(ctx context.Context, result *standards.Result, settings standards.Settings) {
	tenant := result.Tenant
	if result.Conforming() {
		s.logEntry(ctx, tenant, standards.SeverityInfo, standards.MsgCorrect)
		return
	}

	alert := standards.Alert{
		Tenant:       tenant,
		StandardName: standards.StandardName,
		StandardID:   settings.StandardID,
		Message:      standards.MsgNotCorrect,
		Object:       result.NonConforming,
	}
	if err := s.deps.Alerts.RaiseStandardsAlert(ctx, alert); err != nil {
		s.sinkFailed(result, "raise alert", err)
		return
	}
	result.Alerted = true
	s.logEntry(ctx, tenant, standards.SeverityInfo, standards.MsgNotCorrect)
}

func (s *SendReceiveLimitServiceImpl) report(ctx context.Context, result *standards.Result) {
	value := standards.ReportValue(result.NonConforming)

	if err := s.deps.Reports.RecordComplianceField(ctx, result.Tenant, standards.BPAFieldName, value, standards.StoreAsJSON); err != nil {
		s.sinkFailed(result, "record compliance field", err)
		return
	}
	if err := s.deps.Reports.SetComparableField(ctx, result.Tenant, standards.CompareFieldName, value); err != nil {
		s.sinkFailed(result, "set comparable field", err)
		return
	}
	result.Reported = true
}

// sinkFailed records alert and report delivery failures without changing the outcome.
func (s *SendReceiveLimitServiceImpl) sinkFailed(result *standards.Result, step string, err error) {
	s.logger.StandardError(step+" failed", err, result.Tenant)
	result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", step, s.deps.Normalizer.Normalize(err)))
}

func (s *SendReceiveLimitServiceImpl) logEntry(ctx context.Context, tenant string, severity standards.Severity, message string) {
	entry := standards.LogEntry{
		API:      standards.LogAPI,
		Tenant:   tenant,
		Message:  message,
		Severity: severity,
	}
	if err := s.deps.Logs.LogMessage(ctx, entry); err != nil {
		s.logger.StandardError("write log entry failed", err, tenant, slog.String("message", message))
	}
}
