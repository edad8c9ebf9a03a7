package apiutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", field)
	}
	return value, nil
}

// PathID reads a positive integer path value registered as {name}.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := ParsePositiveInt64Field(r.PathValue(name), name)
	if err != nil {
		return 0, FieldError{Field: name, Reason: "must be a positive integer"}
	}
	return id, nil
}

// ParseDate accepts RFC3339 or a bare local date/time and returns UTC.
func ParseDate(raw string, field string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}

	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC(), nil
	}
	layouts := []string{
		"2006-01-02",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
	for _, layout := range layouts {
		parsed, err := time.ParseInLocation(layout, raw, time.Local)
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s must be a valid date", field)
}
