package exoclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"exostandards/domain/standards"
	"exostandards/logging"
)

// DefaultBaseURL is the Exchange Online admin API root.
const DefaultBaseURL = "https://outlook.office365.com"

// maxPages bounds nextLink following for a single cmdlet.
const maxPages = 50

// Doer sends an authorised HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerProvider returns a Doer holding credentials for one tenant.
type DoerProvider interface {
	ForTenant(tenant string) (Doer, error)
}

// StaticDoer serves every tenant with the same Doer.
type StaticDoer struct {
	Doer Doer
}

// ForTenant returns the shared Doer.
func (s StaticDoer) ForTenant(string) (Doer, error) {
	return s.Doer, nil
}

// Command is one Exchange cmdlet invocation.
type Command struct {
	Name       string
	Parameters map[string]any
	// UseSystemMailbox anchors the call on the tenant system mailbox.
	UseSystemMailbox bool
}

// ExchangeClient runs Exchange Online cmdlets over the InvokeCommand REST endpoint.
type ExchangeClient interface {
	InvokeCommand(ctx context.Context, tenant string, cmd Command) ([]json.RawMessage, error)
}

// ExchangeClientImpl is the production ExchangeClient.
type ExchangeClientImpl struct {
	doers   DoerProvider
	baseURL string
	logger  *logging.Logger
}

// NewExchangeClient creates a client posting to baseURL with per-tenant credentials.
func NewExchangeClient(doers DoerProvider, baseURL string) *ExchangeClientImpl {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ExchangeClientImpl{
		doers:   doers,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logging.Default().WithComponent("exchange_client"),
	}
}

// InvokeCommand runs cmd against tenant and returns every output row across pages.
func (c *ExchangeClientImpl) InvokeCommand(ctx context.Context, tenant string, cmd Command) ([]json.RawMessage, error) {
	if tenant == "" {
		return nil, fmt.Errorf("invoke %s: tenant is required", cmd.Name)
	}

	params := cmd.Parameters
	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(invokeCommandRequest{
		CmdletInput: cmdletInput{CmdletName: cmd.Name, Parameters: params},
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", cmd.Name, err)
	}

	doer, err := c.doers.ForTenant(tenant)
	if err != nil {
		return nil, fmt.Errorf("authorise %s for %s: %w", cmd.Name, tenant, err)
	}

	endpoint := fmt.Sprintf("%s/adminapi/beta/%s/InvokeCommand", c.baseURL, url.PathEscape(tenant))
	anchor := anchorMailbox(tenant, cmd.UseSystemMailbox)

	var rows []json.RawMessage
	for page := 0; endpoint != "" && page < maxPages; page++ {
		start := time.Now()
		resp, err := c.post(ctx, doer, endpoint, anchor, cmd.Name, body)
		if err != nil {
			return nil, err
		}
		c.logger.Exchange("cmdlet invoked",
			"cmdlet", cmd.Name,
			"tenant", tenant,
			"rows", len(resp.Value),
			"duration_ms", time.Since(start).Milliseconds())
		for _, w := range resp.Warnings {
			c.logger.Warn("exchange warning", "cmdlet", cmd.Name, "tenant", tenant, "warning", w)
		}

		rows = append(rows, resp.Value...)
		endpoint = resp.NextLink
	}
	if endpoint != "" {
		return nil, fmt.Errorf("invoke %s for %s: still paging after %d pages", cmd.Name, tenant, maxPages)
	}

	return rows, nil
}

func (c *ExchangeClientImpl) post(ctx context.Context, doer Doer, endpoint, anchor, cmdlet string, body []byte) (*invokeCommandResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", cmdlet, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-AnchorMailbox", anchor)
	req.Header.Set("X-CmdletName", cmdlet)

	resp, err := doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", cmdlet, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", cmdlet, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(cmdlet, resp.StatusCode, payload)
	}

	var out invokeCommandResponse
	if len(bytes.TrimSpace(payload)) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", cmdlet, err)
	}
	return &out, nil
}

func anchorMailbox(tenant string, systemMailbox bool) string {
	if systemMailbox {
		return fmt.Sprintf("UPN:%s@%s", standards.SystemMailboxLocal, tenant)
	}
	return fmt.Sprintf("APP:%s@%s", standards.SystemMailboxLocal, tenant)
}
