package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"exostandards/database"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// BaseRepository provides database access and shared conversions for all repositories.
type BaseRepository struct {
	db  *database.Database
	now func() time.Time
}

// NewBaseRepository creates a new BaseRepository with database access
func NewBaseRepository(database *database.Database) *BaseRepository {
	return &BaseRepository{
		db:  database,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// ReadDB returns the pooled connection for SELECT statements
func (b *BaseRepository) ReadDB() *sql.DB {
	return b.db.ReadDB()
}

// WriteDB returns the serialized connection for INSERT/UPDATE/DELETE statements
func (b *BaseRepository) WriteDB() *sql.DB {
	return b.db.WriteDB()
}

// Timestamp formats the current time for storage.
func (b *BaseRepository) Timestamp() string {
	return b.now().UTC().Format(timeLayout)
}

// ParseTimestamp reads a stored timestamp. Unparseable values become the zero time.
func (b *BaseRepository) ParseTimestamp(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ToNullString converts a string to sql.NullString.
// Empty string becomes NULL for database storage.
func (b *BaseRepository) ToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// EncodeJSON serialises value for a JSON column.
func (b *BaseRepository) EncodeJSON(field string, value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", ErrEncodeValue{Field: field, Err: err}
	}
	return string(data), nil
}

// DecodeJSON parses a JSON column into a generic tree. NULL and empty become nil.
func (b *BaseRepository) DecodeJSON(field string, ns sql.NullString) (any, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var value any
	if err := json.Unmarshal([]byte(ns.String), &value); err != nil {
		return nil, ErrDecodeValue{Field: field, Err: err}
	}
	return value, nil
}
