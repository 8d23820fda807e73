package graphclient

import (
	"context"
	"fmt"
	"strings"
	"sync"

	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"exostandards/exoauth"
	"exostandards/logging"
)

// SkuSource lists the subscriptions a tenant holds.
type SkuSource interface {
	SubscribedSkus(ctx context.Context, tenant string) ([]models.SubscribedSkuable, error)
}

// LicenseChecker decides eligibility from a tenant's subscribed SKUs.
type LicenseChecker struct {
	skus   SkuSource
	logger *logging.Logger
}

// NewLicenseChecker creates a checker over skus.
func NewLicenseChecker(skus SkuSource) *LicenseChecker {
	return &LicenseChecker{
		skus:   skus,
		logger: logging.Default().WithComponent("license_checker"),
	}
}

// HasCapability is true when any active SKU provisions one of capabilities.
func (c *LicenseChecker) HasCapability(ctx context.Context, tenant string, capabilities []string) (bool, error) {
	skus, err := c.skus.SubscribedSkus(ctx, tenant)
	if err != nil {
		return false, fmt.Errorf("list subscribed skus: %w", err)
	}

	held := TenantCapabilities(skus)
	for _, capability := range capabilities {
		if held[strings.ToUpper(capability)] {
			return true, nil
		}
	}

	c.logger.Graph("tenant missing capabilities", "tenant", tenant, "required", capabilities, "skus", len(skus))
	return false, nil
}

// TenantCapabilities collects provisioned service plan names from SKUs that are not suspended or deleted.
func TenantCapabilities(skus []models.SubscribedSkuable) map[string]bool {
	held := make(map[string]bool)
	for _, sku := range skus {
		if status := deref(sku.GetCapabilityStatus()); status != "" && status != "Enabled" && status != "Warning" {
			continue
		}
		for _, plan := range sku.GetServicePlans() {
			if deref(plan.GetProvisioningStatus()) == "Disabled" {
				continue
			}
			if name := deref(plan.GetServicePlanName()); name != "" {
				held[strings.ToUpper(name)] = true
			}
		}
	}
	return held
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GraphSkuSource reads /subscribedSkus with a per-tenant Graph client.
type GraphSkuSource struct {
	cfg     exoauth.Config
	mu      sync.Mutex
	clients map[string]*msgraphsdk.GraphServiceClient
}

// NewGraphSkuSource creates a SKU source using certificate credentials from cfg.
func NewGraphSkuSource(cfg exoauth.Config) *GraphSkuSource {
	return &GraphSkuSource{cfg: cfg, clients: make(map[string]*msgraphsdk.GraphServiceClient)}
}

// SubscribedSkus returns every subscription the tenant holds.
func (s *GraphSkuSource) SubscribedSkus(ctx context.Context, tenant string) ([]models.SubscribedSkuable, error) {
	client, err := s.client(tenant)
	if err != nil {
		return nil, err
	}

	result, err := client.SubscribedSkus().Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	return result.GetValue(), nil
}

func (s *GraphSkuSource) client(tenant string) (*msgraphsdk.GraphServiceClient, error) {
	key := strings.ToLower(tenant)

	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[key]; ok {
		return client, nil
	}

	cred, err := exoauth.NewGraphCredential(s.cfg, tenant)
	if err != nil {
		return nil, fmt.Errorf("graph credential: %w", err)
	}

	client, err := msgraphsdk.NewGraphServiceClientWithCredentials(cred, []string{exoauth.GraphScope})
	if err != nil {
		return nil, fmt.Errorf("graph client: %w", err)
	}
	s.clients[key] = client
	return client, nil
}
