package exoauth

import (
	"crypto"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/auth/azurecert"
	"golang.org/x/crypto/pkcs12"

	"exostandards/infrastructure/exoclient"
)

// GraphScope is the default scope for Microsoft Graph application tokens.
const GraphScope = "https://graph.microsoft.com/.default"

// Config holds the multi-tenant application registration used for every tenant.
type Config struct {
	ClientID     string
	CertPath     string
	CertPassword string
	ExchangeURL  string
}

// FromEnv reads EXO_* variables. Environment should already be loaded by main.
func FromEnv() (Config, error) {
	cfg := Config{
		ClientID:     os.Getenv("EXO_CLIENT_ID"),
		CertPath:     os.Getenv("EXO_CERT_PATH"),
		CertPassword: os.Getenv("EXO_CERT_PASSWORD"),
		ExchangeURL:  os.Getenv("EXO_BASE_URL"),
	}
	if cfg.ExchangeURL == "" {
		cfg.ExchangeURL = exoclient.DefaultBaseURL
	}

	if cfg.ClientID == "" || cfg.CertPath == "" {
		return cfg, fmt.Errorf("missing required configuration: EXO_CLIENT_ID, EXO_CERT_PATH")
	}
	return cfg, nil
}

// ExchangeAuth hands out gosip certificate clients, one per tenant.
type ExchangeAuth struct {
	cfg     Config
	mu      sync.Mutex
	clients map[string]*gosip.SPClient
}

// NewExchangeAuth creates the Exchange credential provider.
func NewExchangeAuth(cfg Config) *ExchangeAuth {
	return &ExchangeAuth{cfg: cfg, clients: make(map[string]*gosip.SPClient)}
}

// ForTenant returns a Doer that signs requests with a token issued by tenant.
func (a *ExchangeAuth) ForTenant(tenant string) (exoclient.Doer, error) {
	if tenant == "" {
		return nil, fmt.Errorf("tenant is required")
	}
	key := strings.ToLower(tenant)

	a.mu.Lock()
	defer a.mu.Unlock()

	client, ok := a.clients[key]
	if !ok {
		client = &gosip.SPClient{AuthCnfg: &azurecert.AuthCnfg{
			SiteURL:  a.cfg.ExchangeURL,
			TenantID: tenant,
			ClientID: a.cfg.ClientID,
			CertPath: a.cfg.CertPath,
			CertPass: a.cfg.CertPassword,
		}}
		a.clients[key] = client
	}
	return &gosipDoer{client: client}, nil
}

// gosipDoer authorises with the client's AuthCnfg and sends through its embedded http.Client.
// Execute is bypassed because it injects SharePoint request digests on POST.
type gosipDoer struct {
	client *gosip.SPClient
}

func (d *gosipDoer) Do(req *http.Request) (*http.Response, error) {
	if err := d.client.AuthCnfg.SetAuth(req, d.client); err != nil {
		return nil, fmt.Errorf("set auth: %w", err)
	}
	return d.client.Do(req)
}

// NewGraphCredential builds a certificate credential for tenant from the configured PFX.
func NewGraphCredential(cfg Config, tenant string) (*azidentity.ClientCertificateCredential, error) {
	pfxData, err := os.ReadFile(cfg.CertPath)
	if err != nil {
		return nil, fmt.Errorf("read certificate: %w", err)
	}

	key, cert, err := pkcs12.Decode(pfxData, cfg.CertPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to decode PFX: %w", err)
	}

	privKey, ok := key.(crypto.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("decoded key is not a valid crypto.PrivateKey")
	}

	return azidentity.NewClientCertificateCredential(tenant, cfg.ClientID, []*x509.Certificate{cert}, privKey,
		&azidentity.ClientCertificateCredentialOptions{SendCertificateChain: true})
}
