package factories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exostandards/database"
	"exostandards/domain/standards"
	"exostandards/logging"
	"exostandards/test/helpers"
)

func TestStandardServiceFactory_WiresRepositories(t *testing.T) {
	cfg := database.DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "factory.db")
	db, err := database.New(cfg, logging.NewLogger(&logging.Config{Level: "error"}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := helpers.NewMockCollaborators()
	m.ExpectLicensed("contoso", true)
	tenant := helpers.NewFakeTenant(helpers.Plan("ExchangeOnline", 25, 25))

	factory := NewStandardServiceFactory(NewRepositoryBundle(db), &TenantGateways{
		Licenses: m.Licenses,
		Plans:    tenant,
	})

	ctx := context.Background()
	result := factory.CreateSendReceiveLimitService().Run(ctx, "contoso", standards.Settings{
		SendLimitMB: 35, ReceiveLimitMB: 36, Remediate: true, Alert: true, Report: true, StandardID: "std-1",
	})
	require.Equal(t, standards.OutcomeSuccess, result.Outcome, result.ErrorMessage())
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, []string{"ExchangeOnline-guid"}, tenant.Updates)

	data, err := factory.CreateTenantComplianceService().GetTenantCompliance(ctx, "contoso")
	require.NoError(t, err)
	require.NotNil(t, data.Conforming)
	assert.False(t, *data.Conforming)
	require.Len(t, data.RecentAlerts, 1)
	assert.Equal(t, "std-1", data.RecentAlerts[0].StandardID)
	assert.NotEmpty(t, data.RecentLogs)
}

func TestStandardServiceFactoryImpl_DependenciesUseNormalizer(t *testing.T) {
	factory := &StandardServiceFactoryImpl{repos: &RepositoryBundle{}, gateways: &TenantGateways{}}
	deps := factory.Dependencies()
	assert.NotNil(t, deps.Normalizer)
}
