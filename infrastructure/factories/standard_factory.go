package factories

import (
	"exostandards/application"
	"exostandards/database"
	"exostandards/domain/contracts"
	"exostandards/exoauth"
	"exostandards/infrastructure/apierrors"
	"exostandards/infrastructure/exoclient"
	"exostandards/infrastructure/graphclient"
	"exostandards/infrastructure/repositories"
)

// RepositoryBundle holds the SQLite backed sinks and readers.
type RepositoryBundle struct {
	Logs       *repositories.LogRepository
	Alerts     *repositories.AlertRepository
	Compliance *repositories.ComplianceRepository
}

// NewRepositoryBundle creates every repository over one database.
func NewRepositoryBundle(db *database.Database) *RepositoryBundle {
	return &RepositoryBundle{
		Logs:       repositories.NewLogRepository(db),
		Alerts:     repositories.NewAlertRepository(db),
		Compliance: repositories.NewComplianceRepository(db),
	}
}

// TenantGateways are the remote collaborators a standard reads from and writes to.
type TenantGateways struct {
	Licenses contracts.LicenseChecker
	Plans    contracts.MailboxPlanGateway
}

// NewTenantGateways wires Graph license checks and Exchange mailbox plans behind one app registration.
func NewTenantGateways(cfg exoauth.Config) *TenantGateways {
	exchange := exoclient.NewExchangeClient(exoauth.NewExchangeAuth(cfg), cfg.ExchangeURL)
	return &TenantGateways{
		Licenses: graphclient.NewLicenseChecker(graphclient.NewGraphSkuSource(cfg)),
		Plans:    exoclient.NewMailboxPlanGateway(exchange),
	}
}

// StandardServiceFactory builds application services from repositories and gateways.
type StandardServiceFactory interface {
	CreateSendReceiveLimitService() application.SendReceiveLimitService
	CreateTenantComplianceService() *application.TenantComplianceService
}

// StandardServiceFactoryImpl implements the factory
type StandardServiceFactoryImpl struct {
	repos    *RepositoryBundle
	gateways *TenantGateways
}

// NewStandardServiceFactory creates a new service factory
func NewStandardServiceFactory(repos *RepositoryBundle, gateways *TenantGateways) StandardServiceFactory {
	return &StandardServiceFactoryImpl{
		repos:    repos,
		gateways: gateways,
	}
}

// Dependencies returns the collaborators one standard run needs.
func (f *StandardServiceFactoryImpl) Dependencies() application.StandardDependencies {
	return application.StandardDependencies{
		Licenses:   f.gateways.Licenses,
		Plans:      f.gateways.Plans,
		Logs:       f.repos.Logs,
		Alerts:     f.repos.Alerts,
		Reports:    f.repos.Compliance,
		Normalizer: apierrors.Normalizer{},
	}
}

// CreateSendReceiveLimitService creates the send and receive limit standard
func (f *StandardServiceFactoryImpl) CreateSendReceiveLimitService() application.SendReceiveLimitService {
	return application.NewSendReceiveLimitService(f.Dependencies())
}

// CreateTenantComplianceService creates the read side over stored results
func (f *StandardServiceFactoryImpl) CreateTenantComplianceService() *application.TenantComplianceService {
	return application.NewTenantComplianceService(f.repos.Logs, f.repos.Alerts, f.repos.Compliance)
}
