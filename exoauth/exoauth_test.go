package exoauth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exostandards/infrastructure/exoclient"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("EXO_CLIENT_ID", "app-id")
	t.Setenv("EXO_CERT_PATH", "/certs/app.pfx")
	t.Setenv("EXO_CERT_PASSWORD", "secret")
	t.Setenv("EXO_BASE_URL", "")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "app-id", cfg.ClientID)
	assert.Equal(t, "/certs/app.pfx", cfg.CertPath)
	assert.Equal(t, exoclient.DefaultBaseURL, cfg.ExchangeURL)
}

func TestFromEnv_MissingValues(t *testing.T) {
	t.Setenv("EXO_CLIENT_ID", "")
	t.Setenv("EXO_CERT_PATH", "/certs/app.pfx")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "EXO_CLIENT_ID")
}

func TestExchangeAuth_CachesClientPerTenant(t *testing.T) {
	auth := NewExchangeAuth(Config{ClientID: "app", CertPath: "app.pfx", ExchangeURL: exoclient.DefaultBaseURL})

	first, err := auth.ForTenant("Contoso.onmicrosoft.com")
	require.NoError(t, err)
	second, err := auth.ForTenant("contoso.onmicrosoft.com")
	require.NoError(t, err)
	other, err := auth.ForTenant("fabrikam.onmicrosoft.com")
	require.NoError(t, err)

	assert.Same(t, first.(*gosipDoer).client, second.(*gosipDoer).client)
	assert.NotSame(t, first.(*gosipDoer).client, other.(*gosipDoer).client)
	assert.Len(t, auth.clients, 2)

	_, err = auth.ForTenant("")
	assert.Error(t, err)
}

func TestNewGraphCredential_BadCertificate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pfx")
	require.NoError(t, os.WriteFile(path, []byte("not a pfx"), 0o600))

	_, err := NewGraphCredential(Config{ClientID: "app", CertPath: path}, "contoso.onmicrosoft.com")
	assert.ErrorContains(t, err, "failed to decode PFX")

	_, err = NewGraphCredential(Config{ClientID: "app", CertPath: filepath.Join(t.TempDir(), "missing.pfx")}, "t")
	assert.ErrorContains(t, err, "read certificate")
}
