package exoclient

import (
	"context"
	"encoding/json"
	"fmt"

	"exostandards/domain/standards"
)

// MailboxPlanGateway reads and writes mailbox plans through Get-MailboxPlan and Set-MailboxPlan.
type MailboxPlanGateway struct {
	client ExchangeClient
}

// NewMailboxPlanGateway wraps an Exchange client.
func NewMailboxPlanGateway(client ExchangeClient) *MailboxPlanGateway {
	return &MailboxPlanGateway{client: client}
}

// ListMailboxPlans returns the tenant's mailbox plans.
func (g *MailboxPlanGateway) ListMailboxPlans(ctx context.Context, tenant string) ([]standards.MailboxPlan, error) {
	rows, err := g.client.InvokeCommand(ctx, tenant, Command{
		Name:       "Get-MailboxPlan",
		Parameters: map[string]any{"ResultSize": "Unlimited"},
	})
	if err != nil {
		return nil, err
	}

	plans := make([]standards.MailboxPlan, 0, len(rows))
	for i, row := range rows {
		var p mailboxPlanJSON
		if err := json.Unmarshal(row, &p); err != nil {
			return nil, fmt.Errorf("decode mailbox plan %d: %w", i, err)
		}
		guid := p.Guid
		if guid == "" {
			guid = p.ExchangeObjectId
		}
		plans = append(plans, standards.MailboxPlan{
			DisplayName:    p.DisplayName,
			MaxSendSize:    p.MaxSendSize,
			MaxReceiveSize: p.MaxReceiveSize,
			GUID:           guid,
		})
	}
	return plans, nil
}

// UpdateMailboxPlan sets both size limits on one plan.
func (g *MailboxPlanGateway) UpdateMailboxPlan(ctx context.Context, tenant, guid string, limits standards.Limits, elevated bool) error {
	_, err := g.client.InvokeCommand(ctx, tenant, Command{
		Name: "Set-MailboxPlan",
		Parameters: map[string]any{
			"Identity":       guid,
			"MaxSendSize":    limits.MaxSendBytes,
			"MaxReceiveSize": limits.MaxReceiveBytes,
		},
		UseSystemMailbox: elevated,
	})
	return err
}
