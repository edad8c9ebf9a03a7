package apiutil

import (
	"database/sql"
	"strings"
	"time"
)

// ToNullString treats blank strings as NULL.
func ToNullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

// ToNullTime stores times in UTC truncated to the second so that stored
// values compare correctly as text.
func ToNullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: value.UTC().Truncate(time.Second), Valid: true}
}

func FromNullTime(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	return &t
}
