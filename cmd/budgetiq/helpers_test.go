package main

import (
	"errors"
	"testing"
	"time"

	"github.com/budgetiq/budgetiq/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "network error gets connection copy",
			err:  &api.Error{Kind: api.KindNetworkUnavailable},
			want: "can't reach BudgetIQ - check your connection",
		},
		{
			name: "timeout gets retry copy",
			err:  &api.Error{Kind: api.KindTimeout},
			want: "request timed out - try again",
		},
		{
			name: "rejection shows the server detail",
			err:  &api.Error{Kind: api.KindRejected, StatusCode: 400, Detail: "amount must be positive"},
			want: "request rejected (400): amount must be positive",
		},
		{
			name: "plain errors pass through",
			err:  errors.New("boom"),
			want: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, friendlyError(tt.err))
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got.Time)

	// Empty means today.
	now, err := parseDate("")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), now.Time, time.Minute)

	_, err = parseDate("15/01/2024")
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
}
