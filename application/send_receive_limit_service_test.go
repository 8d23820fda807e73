package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"exostandards/domain/standards"
	"exostandards/test/helpers"
)

const tenant = "contoso.onmicrosoft.com"

func newService(m *helpers.MockCollaborators) SendReceiveLimitService {
	return NewSendReceiveLimitService(StandardDependencies{
		Licenses:   m.Licenses,
		Plans:      m.Plans,
		Logs:       m.Logs,
		Alerts:     m.Alerts,
		Reports:    m.Reports,
		Normalizer: m.Normalizer,
	})
}

func TestSendReceiveLimit_InvalidLimitsPerformNoReads(t *testing.T) {
	tests := []struct {
		name     string
		settings standards.Settings
		message  string
	}{
		{
			name:     "send below range",
			settings: standards.Settings{SendLimitMB: 0, ReceiveLimitMB: 35, Remediate: true},
			message:  "SendReceiveLimitTenant: Invalid SendLimit parameter set",
		},
		{
			name:     "receive above range",
			settings: standards.Settings{SendLimitMB: 35, ReceiveLimitMB: 151, Remediate: true},
			message:  "SendReceiveLimitTenant: Invalid ReceiveLimit parameter set",
		},
		{
			name:     "both invalid logs once",
			settings: standards.Settings{SendLimitMB: 500, ReceiveLimitMB: -3, Alert: true, Report: true},
			message:  "SendReceiveLimitTenant: Invalid SendLimit parameter set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := helpers.NewMockCollaborators()
			m.ExpectLicensed(tenant, true)
			m.ExpectLog(tenant, standards.SeverityError, tt.message)

			result := newService(m).Run(helpers.TestContext(), tenant, tt.settings)

			assert.Equal(t, standards.OutcomeValidationError, result.Outcome)
			var verr *standards.ValidationError
			assert.ErrorAs(t, result.Err, &verr)
			m.Logs.AssertNumberOfCalls(t, "LogMessage", 1)
			m.Plans.AssertNotCalled(t, "ListMailboxPlans", mock.Anything, mock.Anything)
			m.Plans.AssertNotCalled(t, "UpdateMailboxPlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			m.AssertAllExpectations(t)
		})
	}
}

func TestSendReceiveLimit_RunRawRejectsUnparseableLimit(t *testing.T) {
	m := helpers.NewMockCollaborators()
	m.ExpectLicensed(tenant, true)
	m.ExpectLog(tenant, standards.SeverityError, "SendReceiveLimitTenant: Invalid ReceiveLimit parameter set")

	result := newService(m).RunRaw(helpers.TestContext(), tenant, standards.RawSettings{
		SendLimit:    "35",
		ReceiveLimit: "lots",
	})

	assert.Equal(t, standards.OutcomeValidationError, result.Outcome)
	m.Plans.AssertNotCalled(t, "ListMailboxPlans", mock.Anything, mock.Anything)
	m.AssertAllExpectations(t)
}

func TestSendReceiveLimit_UnlicensedTenantIsSkippedSilently(t *testing.T) {
	m := helpers.NewMockCollaborators()
	m.ExpectLicensed(tenant, false)

	// Invalid limits prove the gate runs before validation.
	result := newService(m).Run(helpers.TestContext(), tenant, standards.Settings{SendLimitMB: 999, Remediate: true})

	assert.Equal(t, standards.OutcomeSkipped, result.Outcome)
	assert.True(t, result.Succeeded())
	assert.NoError(t, result.Err)
	m.Logs.AssertNotCalled(t, "LogMessage", mock.Anything, mock.Anything)
	m.Plans.AssertNotCalled(t, "ListMailboxPlans", mock.Anything, mock.Anything)
	m.AssertAllExpectations(t)
}

func TestSendReceiveLimit_LicenseCheckFailureIsReadError(t *testing.T) {
	m := helpers.NewMockCollaborators()
	m.Licenses.On("HasCapability", mock.Anything, tenant, standards.RequiredCapabilities).Return(false, errors.New("boom"))
	m.ExpectNormalize("boom")
	m.ExpectLog(tenant, standards.SeverityError, "Could not verify the license state for "+tenant+". Error: boom")

	result := newService(m).Run(helpers.TestContext(), tenant, standards.Settings{SendLimitMB: 35, ReceiveLimitMB: 35})

	assert.Equal(t, standards.OutcomeReadError, result.Outcome)
	m.AssertAllExpectations(t)
}

func TestSendReceiveLimit_FetchFailureIsLoggedAndAborts(t *testing.T) {
	m := helpers.NewMockCollaborators()
	m.ExpectLicensed(tenant, true)
	m.Plans.On("ListMailboxPlans", mock.Anything, tenant).Return(nil, errors.New("401 unauthorized"))
	m.ExpectNormalize("The application is not authorised for this tenant")
	m.ExpectLog(tenant, standards.SeverityError,
		"Could not get the SendReceiveLimit state for "+tenant+". Error: The application is not authorised for this tenant")

	result := newService(m).Run(helpers.TestContext(), tenant, standards.Settings{
		SendLimitMB: 35, ReceiveLimitMB: 35, Remediate: true, Alert: true, Report: true,
	})

	assert.Equal(t, standards.OutcomeReadError, result.Outcome)
	assert.ErrorContains(t, result.Err, "401 unauthorized")
	m.Alerts.AssertNotCalled(t, "RaiseStandardsAlert", mock.Anything, mock.Anything)
	m.AssertAllExpectations(t)
}

func TestSendReceiveLimit_ConformingTenantFiresNothing(t *testing.T) {
	m := helpers.NewMockCollaborators()
	m.ExpectLicensed(tenant, true)
	m.ExpectPlans(tenant, []standards.MailboxPlan{{
		DisplayName:    "ExchangeOnline",
		MaxSendSize:    "35 MB (36,700,160 bytes)",
		MaxReceiveSize: "35 MB (36,700,160 bytes)",
		GUID:           "guid-1",
	}})
	m.ExpectLog(tenant, standards.SeverityInfo, standards.MsgAlreadyCorrect)
	m.ExpectLog(tenant, standards.SeverityInfo, standards.MsgCorrect)

	result := newService(m).Run(helpers.TestContext(), tenant, standards.Settings{
		SendLimitMB: 35, ReceiveLimitMB: 35, Remediate: true, Alert: true,
	})

	assert.Equal(t, standards.OutcomeSuccess, result.Outcome)
	assert.Empty(t, result.NonConforming)
	assert.Zero(t, result.Updated)
	assert.False(t, result.Alerted)
	m.Plans.AssertNotCalled(t, "UpdateMailboxPlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.Alerts.AssertNotCalled(t, "RaiseStandardsAlert", mock.Anything, mock.Anything)
	m.AssertAllExpectations(t)
}

func TestSendReceiveLimit_RemediatesWithDesiredBytes(t *testing.T) {
	m := helpers.NewMockCollaborators()
	m.ExpectLicensed(tenant, true)
	m.ExpectPlans(tenant, []standards.MailboxPlan{{
		DisplayName:    "ExchangeOnlineEnterprise",
		MaxSendSize:    "25 MB (26,214,400 bytes)",
		MaxReceiveSize: "25 MB (26,214,400 bytes)",
		GUID:           "guid-1",
	}})
	want := standards.Limits{MaxSendBytes: 36700160, MaxReceiveBytes: 37748736}
	m.Plans.On("UpdateMailboxPlan", mock.Anything, tenant, "guid-1", want, true).Return(nil).Once()
	m.ExpectLog(tenant, standards.SeverityInfo, "Successfully set the tenant send(35MB) and receive(36MB) limits")

	result := newService(m).Run(helpers.TestContext(), tenant, standards.Settings{
		SendLimitMB: 35, ReceiveLimitMB: 36, Remediate: true,
	})

	assert.Equal(t, standards.OutcomeSuccess, result.Outcome)
	assert.Equal(t, 1, result.Updated)
	m.Plans.AssertNumberOfCalls(t, "UpdateMailboxPlan", 1)
	m.AssertAllExpectations(t)
}

func TestSendReceiveLimit_WriteFailureAbortsWithoutRollback(t *testing.T) {
	m := helpers.NewMockCollaborators()
	m.ExpectLicensed(tenant, true)
	plans := []standards.MailboxPlan{
		helpers.Plan("first", 25, 25),
		helpers.Plan("second", 25, 25),
		helpers.Plan("third", 25, 25),
	}
	m.ExpectPlans(tenant, plans)
	limits := standards.LimitsFromMB(35, 35)
	m.Plans.On("UpdateMailboxPlan", mock.Anything, tenant, "first-guid", limits, true).Return(nil).Once()
	m.Plans.On("UpdateMailboxPlan", mock.Anything, tenant, "second-guid", limits, true).Return(errors.New("throttled")).Once()
	m.ExpectNormalize("throttled")
	m.ExpectLog(tenant, standards.SeverityError, standards.MsgSetFailedPrefix+"throttled")

	result := newService(m).Run(helpers.TestContext(), tenant, standards.Settings{
		SendLimitMB: 35, ReceiveLimitMB: 35, Remediate: true,
	})

	assert.Equal(t, standards.OutcomeWriteError, result.Outcome)
	assert.Equal(t, 1, result.Updated)
	assert.ErrorContains(t, result.Err, "throttled")
	m.Plans.AssertNotCalled(t, "UpdateMailboxPlan", mock.Anything, tenant, "third-guid", mock.Anything, mock.Anything)
	m.Logs.AssertNumberOfCalls(t, "LogMessage", 1)
	m.AssertAllExpectations(t)
}

func TestSendReceiveLimit_AlertCarriesFullList(t *testing.T) {
	m := helpers.NewMockCollaborators()
	m.ExpectLicensed(tenant, true)
	plans := []standards.MailboxPlan{
		helpers.Plan("ok", 35, 35),
		helpers.Plan("small", 10, 35),
		helpers.Plan("large", 35, 100),
	}
	m.ExpectPlans(tenant, plans)
	m.Alerts.On("RaiseStandardsAlert", mock.Anything, standards.Alert{
		Tenant:       tenant,
		StandardName: standards.StandardName,
		StandardID:   "std-42",
		Message:      standards.MsgNotCorrect,
		Object:       []standards.MailboxPlan{plans[1], plans[2]},
	}).Return(nil).Once()
	m.ExpectLog(tenant, standards.SeverityInfo, standards.MsgNotCorrect)

	result := newService(m).Run(helpers.TestContext(), tenant, standards.Settings{
		SendLimitMB: 35, ReceiveLimitMB: 35, Alert: true, StandardID: "std-42",
	})

	assert.Equal(t, standards.OutcomeSuccess, result.Outcome)
	assert.True(t, result.Alerted)
	m.Alerts.AssertNumberOfCalls(t, "RaiseStandardsAlert", 1)
	m.AssertAllExpectations(t)
}

func TestSendReceiveLimit_AlertSinkFailureIsAWarning(t *testing.T) {
	m := helpers.NewMockCollaborators()
	m.ExpectLicensed(tenant, true)
	m.ExpectPlans(tenant, []standards.MailboxPlan{helpers.Plan("small", 10, 10)})
	m.Alerts.On("RaiseStandardsAlert", mock.Anything, mock.Anything).Return(errors.New("db locked"))
	m.ExpectNormalize("db locked")

	result := newService(m).Run(helpers.TestContext(), tenant, standards.Settings{
		SendLimitMB: 35, ReceiveLimitMB: 35, Alert: true,
	})

	assert.Equal(t, standards.OutcomeSuccess, result.Outcome)
	assert.False(t, result.Alerted)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "db locked")
	m.AssertAllExpectations(t)
}

func TestSendReceiveLimit_ReportValue(t *testing.T) {
	tests := []struct {
		name  string
		plans []standards.MailboxPlan
		want  func(plans []standards.MailboxPlan) any
	}{
		{
			name:  "conforming records true",
			plans: []standards.MailboxPlan{helpers.Plan("ok", 35, 35)},
			want:  func([]standards.MailboxPlan) any { return true },
		},
		{
			name:  "drift records the list verbatim",
			plans: []standards.MailboxPlan{helpers.Plan("ok", 35, 35), helpers.Plan("bad", 20, 20)},
			want: func(plans []standards.MailboxPlan) any {
				return []standards.MailboxPlan{plans[1]}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := helpers.NewMockCollaborators()
			m.ExpectLicensed(tenant, true)
			m.ExpectPlans(tenant, tt.plans)
			want := tt.want(tt.plans)
			m.Reports.On("RecordComplianceField", mock.Anything, tenant, standards.BPAFieldName, want, standards.StoreAsJSON).Return(nil).Once()
			m.Reports.On("SetComparableField", mock.Anything, tenant, standards.CompareFieldName, want).Return(nil).Once()

			result := newService(m).Run(helpers.TestContext(), tenant, standards.Settings{
				SendLimitMB: 35, ReceiveLimitMB: 35, Report: true,
			})

			assert.Equal(t, standards.OutcomeSuccess, result.Outcome)
			assert.True(t, result.Reported)
			m.AssertAllExpectations(t)
		})
	}
}

func TestSendReceiveLimit_ReportUsesPreRemediationList(t *testing.T) {
	m := helpers.NewMockCollaborators()
	m.ExpectLicensed(tenant, true)
	drifted := helpers.Plan("bad", 20, 20)
	m.ExpectPlans(tenant, []standards.MailboxPlan{drifted})
	m.Plans.On("UpdateMailboxPlan", mock.Anything, tenant, drifted.GUID, standards.LimitsFromMB(35, 35), true).Return(nil)
	m.ExpectAnyLog()
	m.Reports.On("RecordComplianceField", mock.Anything, tenant, standards.BPAFieldName, []standards.MailboxPlan{drifted}, standards.StoreAsJSON).Return(nil)
	m.Reports.On("SetComparableField", mock.Anything, tenant, standards.CompareFieldName, []standards.MailboxPlan{drifted}).Return(nil)

	result := newService(m).Run(helpers.TestContext(), tenant, standards.Settings{
		SendLimitMB: 35, ReceiveLimitMB: 35, Remediate: true, Report: true,
	})

	assert.Equal(t, standards.OutcomeSuccess, result.Outcome)
	m.Plans.AssertNumberOfCalls(t, "ListMailboxPlans", 1)
	m.AssertAllExpectations(t)
}

func TestSendReceiveLimit_UnparseableSizeIsRemediated(t *testing.T) {
	m := helpers.NewMockCollaborators()
	m.ExpectLicensed(tenant, true)
	m.ExpectPlans(tenant, []standards.MailboxPlan{{
		DisplayName: "odd", MaxSendSize: "Unlimited", MaxReceiveSize: "35 MB (36,700,160 bytes)", GUID: "odd-guid",
	}})
	m.Plans.On("UpdateMailboxPlan", mock.Anything, tenant, "odd-guid", standards.LimitsFromMB(35, 35), true).Return(nil).Once()
	m.ExpectAnyLog()

	result := newService(m).Run(helpers.TestContext(), tenant, standards.Settings{
		SendLimitMB: 35, ReceiveLimitMB: 35, Remediate: true,
	})

	assert.Equal(t, standards.OutcomeSuccess, result.Outcome)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "MaxSendSize")
	m.AssertAllExpectations(t)
}

func TestSendReceiveLimit_SecondRunIsIdempotent(t *testing.T) {
	m := helpers.NewMockCollaborators()
	m.Licenses.On("HasCapability", mock.Anything, tenant, standards.RequiredCapabilities).Return(true, nil)
	m.ExpectAnyLog()
	fake := helpers.NewFakeTenant(helpers.Plan("a", 25, 25), helpers.Plan("b", 35, 36), helpers.Plan("c", 150, 1))

	service := NewSendReceiveLimitService(StandardDependencies{
		Licenses:   m.Licenses,
		Plans:      fake,
		Logs:       m.Logs,
		Alerts:     m.Alerts,
		Reports:    m.Reports,
		Normalizer: m.Normalizer,
	})
	settings := standards.Settings{SendLimitMB: 35, ReceiveLimitMB: 36, Remediate: true}

	first := service.Run(helpers.TestContext(), tenant, settings)
	require.Equal(t, standards.OutcomeSuccess, first.Outcome)
	assert.Equal(t, 2, first.Updated)
	assert.Equal(t, []string{"a-guid", "c-guid"}, fake.Updates)

	second := service.Run(helpers.TestContext(), tenant, settings)
	require.Equal(t, standards.OutcomeSuccess, second.Outcome)
	assert.Zero(t, second.Updated)
	assert.Empty(t, second.NonConforming)
	assert.Len(t, fake.Updates, 2)
}

func TestSendReceiveLimit_EmptyTenant(t *testing.T) {
	m := helpers.NewMockCollaborators()

	result := newService(m).Run(helpers.TestContext(), "", standards.Settings{SendLimitMB: 35, ReceiveLimitMB: 35})

	assert.Equal(t, standards.OutcomeValidationError, result.Outcome)
	m.Licenses.AssertNotCalled(t, "HasCapability", mock.Anything, mock.Anything, mock.Anything)
}
