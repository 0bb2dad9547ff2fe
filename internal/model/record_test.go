package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RecordID
		wantErr bool
	}{
		{
			name:  "numeric id",
			input: `42`,
			want:  RecordID("42"),
		},
		{
			name:  "string id",
			input: `"i1"`,
			want:  RecordID("i1"),
		},
		{
			name:  "large numeric id",
			input: `9007199254740993`,
			want:  RecordID("9007199254740993"),
		},
		{
			name:    "invalid value",
			input:   `true`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id RecordID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestRecordID_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		id   RecordID
		want string
	}{
		{name: "numeric id round-trips as number", id: RecordID("42"), want: `42`},
		{name: "string id stays quoted", id: RecordID("i1"), want: `"i1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: `"2024-01-01T00:00:00Z"`,
			want:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "zone-less datetime",
			input: `"2024-01-01T00:00:00"`,
			want:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "bare date",
			input: `"2024-01-01"`,
			want:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   `"yesterday"`,
			wantErr: true,
		},
		{
			name:    "non-string",
			input:   `1704067200`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Time
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, ts.Equal(tt.want), "got %v, want %v", ts.Time, tt.want)
		})
	}
}

func TestRecord_DecodeBackendShape(t *testing.T) {
	// The backend serializes datetimes without a zone offset.
	raw := `{
		"id": 7,
		"amount": 5000,
		"source": "Acme",
		"category": "Salary",
		"date": "2024-01-01T00:00:00",
		"created_at": "2024-01-02T10:30:00"
	}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	assert.Equal(t, RecordID("7"), rec.ID)
	assert.InDelta(t, 5000.0, rec.Amount, 0.001)
	assert.Equal(t, "Acme", rec.Source)
	assert.Equal(t, "Salary", rec.Category)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rec.Date.Time)
	assert.Equal(t, time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC), rec.CreatedAt.Time)
}
