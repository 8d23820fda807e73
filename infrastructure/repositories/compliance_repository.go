package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"exostandards/database"
	"exostandards/domain/contracts"
	"exostandards/domain/standards"
)

// ComplianceRepository stores best-practice analyser fields and comparable fields, one row per tenant and field.
type ComplianceRepository struct {
	*BaseRepository
}

var (
	_ contracts.ReportSink       = (*ComplianceRepository)(nil)
	_ contracts.ComplianceReader = (*ComplianceRepository)(nil)
)

// NewComplianceRepository creates a new compliance repository.
func NewComplianceRepository(database *database.Database) *ComplianceRepository {
	return &ComplianceRepository{BaseRepository: NewBaseRepository(database)}
}

// RecordComplianceField upserts a BPA field.
func (r *ComplianceRepository) RecordComplianceField(ctx context.Context, tenant, field string, value any, storeAs standards.StoreAs) error {
	if tenant == "" {
		return contracts.ErrTenantRequired
	}
	encoded, err := r.EncodeJSON(field, value)
	if err != nil {
		return err
	}

	_, err = r.WriteDB().ExecContext(ctx,
		`INSERT INTO bpa_fields (tenant, field_name, store_as, value_json, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (tenant, field_name) DO UPDATE SET
		   store_as = excluded.store_as, value_json = excluded.value_json, updated_at = excluded.updated_at`,
		tenant, field, string(storeAs), encoded, r.Timestamp())
	if err != nil {
		return fmt.Errorf("upsert bpa field %s: %w", field, err)
	}
	return nil
}

// SetComparableField upserts a comparable field.
func (r *ComplianceRepository) SetComparableField(ctx context.Context, tenant, field string, value any) error {
	if tenant == "" {
		return contracts.ErrTenantRequired
	}
	encoded, err := r.EncodeJSON(field, value)
	if err != nil {
		return err
	}

	_, err = r.WriteDB().ExecContext(ctx,
		`INSERT INTO compare_fields (tenant, field_name, value_json, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (tenant, field_name) DO UPDATE SET
		   value_json = excluded.value_json, updated_at = excluded.updated_at`,
		tenant, field, encoded, r.Timestamp())
	if err != nil {
		return fmt.Errorf("upsert comparable field %s: %w", field, err)
	}
	return nil
}

// ListBPAFields returns every BPA field stored for tenant.
func (r *ComplianceRepository) ListBPAFields(ctx context.Context, tenant string) ([]standards.ComplianceField, error) {
	return r.list(ctx,
		`SELECT tenant, field_name, store_as, value_json, updated_at FROM bpa_fields WHERE tenant = ? ORDER BY field_name`,
		tenant)
}

// ListComparableFields returns every comparable field stored for tenant.
func (r *ComplianceRepository) ListComparableFields(ctx context.Context, tenant string) ([]standards.ComplianceField, error) {
	return r.list(ctx,
		`SELECT tenant, field_name, '' AS store_as, value_json, updated_at FROM compare_fields WHERE tenant = ? ORDER BY field_name`,
		tenant)
}

func (r *ComplianceRepository) list(ctx context.Context, query, tenant string) ([]standards.ComplianceField, error) {
	rows, err := r.ReadDB().QueryContext(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("query compliance fields: %w", err)
	}
	defer rows.Close()

	fields := make([]standards.ComplianceField, 0)
	for rows.Next() {
		var (
			field     standards.ComplianceField
			storeAs   string
			value     sql.NullString
			updatedAt string
		)
		if err := rows.Scan(&field.Tenant, &field.Name, &storeAs, &value, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan compliance field: %w", err)
		}
		field.StoreAs = standards.StoreAs(storeAs)
		field.UpdatedAt = r.ParseTimestamp(updatedAt)
		if field.Value, err = r.DecodeJSON(field.Name, value); err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, rows.Err()
}
