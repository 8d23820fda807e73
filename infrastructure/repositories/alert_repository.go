package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"exostandards/database"
	"exostandards/domain/contracts"
	"exostandards/domain/standards"
)

// AlertRepository persists standards alerts.
type AlertRepository struct {
	*BaseRepository
}

var (
	_ contracts.AlertSink   = (*AlertRepository)(nil)
	_ contracts.AlertReader = (*AlertRepository)(nil)
)

// NewAlertRepository creates a new alert repository.
func NewAlertRepository(database *database.Database) *AlertRepository {
	return &AlertRepository{BaseRepository: NewBaseRepository(database)}
}

// RaiseStandardsAlert stores alert under a time-ordered id.
func (r *AlertRepository) RaiseStandardsAlert(ctx context.Context, alert standards.Alert) error {
	if alert.Tenant == "" {
		return contracts.ErrTenantRequired
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate alert id: %w", err)
	}

	object, err := r.EncodeJSON("object", alert.Object)
	if err != nil {
		return err
	}

	_, err = r.WriteDB().ExecContext(ctx,
		`INSERT INTO standard_alerts (id, tenant, standard_name, standard_id, message, object_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), alert.Tenant, alert.StandardName, alert.StandardID, alert.Message, object, r.Timestamp())
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// ListByTenant returns up to limit alerts for tenant, newest first.
func (r *AlertRepository) ListByTenant(ctx context.Context, tenant string, limit int) ([]standards.Alert, error) {
	rows, err := r.ReadDB().QueryContext(ctx,
		`SELECT id, tenant, standard_name, standard_id, message, object_json, created_at
		 FROM standard_alerts WHERE tenant = ? ORDER BY id DESC LIMIT ?`, tenant, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]standards.Alert, 0)
	for rows.Next() {
		var (
			alert     standards.Alert
			object    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&alert.ID, &alert.Tenant, &alert.StandardName, &alert.StandardID, &alert.Message, &object, &createdAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alert.CreatedAt = r.ParseTimestamp(createdAt)
		if alert.Object, err = r.DecodeJSON("object", object); err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}
