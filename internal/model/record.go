// Package model defines the core domain types shared across the application.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RecordID is a server-assigned record identifier. The backend serializes ids
// as JSON numbers, while some deployments return strings; both decode into the
// same string form.
type RecordID string

// UnmarshalJSON accepts both string and numeric id values.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty record id")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to parse record id: %w", err)
		}
		*id = RecordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to parse record id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as numbers so round-trips match the backend.
func (id RecordID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Time wraps time.Time to accept the date formats the backend actually emits.
// The API serializes datetimes without a zone offset, and callers may supply
// bare calendar dates; all three forms decode into the same value.
type Time struct {
	time.Time
}

// NewTime wraps a time.Time.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON accepts RFC 3339, zone-less ISO datetimes, and bare dates.
func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse date: %w", err)
	}

	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to parse date %q: %w", s, lastErr)
}

// Record represents a single financial record, either income or expense.
// Source is set for income records; Description is optional and only used by
// expense records.
type Record struct {
	Date        Time     `json:"date"`
	CreatedAt   Time     `json:"created_at,omitempty"`
	ID          RecordID `json:"id"`
	Category    string   `json:"category"`
	Source      string   `json:"source,omitempty"`
	Description string   `json:"description,omitempty"`
	Amount      float64  `json:"amount"`
}

// RecordDraft is a record as entered locally, before the server assigns an id.
type RecordDraft struct {
	Date        Time    `json:"date"`
	Category    string  `json:"category"`
	Source      string  `json:"source,omitempty"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}
