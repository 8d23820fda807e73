package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"exostandards/database"
	"exostandards/domain/contracts"
	"exostandards/domain/standards"
	"exostandards/logging"
)

// LogRepository persists framework log entries and mirrors them to the structured logger.
type LogRepository struct {
	*BaseRepository
	logger *logging.Logger
}

var (
	_ contracts.LogSink   = (*LogRepository)(nil)
	_ contracts.LogReader = (*LogRepository)(nil)
)

// NewLogRepository creates a new log repository.
func NewLogRepository(database *database.Database) *LogRepository {
	return &LogRepository{
		BaseRepository: NewBaseRepository(database),
		logger:         logging.Default().WithComponent("standards_log"),
	}
}

// LogMessage stores entry.
func (r *LogRepository) LogMessage(ctx context.Context, entry standards.LogEntry) error {
	if entry.Tenant == "" {
		return contracts.ErrTenantRequired
	}
	if entry.Severity == "" {
		entry.Severity = standards.SeverityInfo
	}

	var data sql.NullString
	if entry.Data != nil {
		encoded, err := r.EncodeJSON("log_data", entry.Data)
		if err != nil {
			return err
		}
		data = r.ToNullString(encoded)
	}

	r.mirror(entry)

	_, err := r.WriteDB().ExecContext(ctx,
		`INSERT INTO standard_logs (api, tenant, message, severity, log_data, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.API, entry.Tenant, entry.Message, string(entry.Severity), data, r.Timestamp())
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

func (r *LogRepository) mirror(entry standards.LogEntry) {
	switch entry.Severity {
	case standards.SeverityError:
		r.logger.StandardError(entry.Message, nil, entry.Tenant)
	case standards.SeverityWarning:
		r.logger.Warn(entry.Message, "tenant", entry.Tenant)
	case standards.SeverityDebug:
		r.logger.Debug(entry.Message, "tenant", entry.Tenant)
	default:
		r.logger.Standard(entry.Message, entry.Tenant)
	}
}

// ListByTenant returns up to limit entries for tenant, newest first.
func (r *LogRepository) ListByTenant(ctx context.Context, tenant string, limit int) ([]standards.LogEntry, error) {
	rows, err := r.ReadDB().QueryContext(ctx,
		`SELECT id, api, tenant, message, severity, log_data, created_at
		 FROM standard_logs WHERE tenant = ? ORDER BY id DESC LIMIT ?`, tenant, limit)
	if err != nil {
		return nil, fmt.Errorf("query log entries: %w", err)
	}
	defer rows.Close()

	entries := make([]standards.LogEntry, 0)
	for rows.Next() {
		var (
			entry     standards.LogEntry
			severity  string
			data      sql.NullString
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.API, &entry.Tenant, &entry.Message, &severity, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entry.Severity = standards.Severity(severity)
		entry.CreatedAt = r.ParseTimestamp(createdAt)
		if entry.Data, err = r.DecodeJSON("log_data", data); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
