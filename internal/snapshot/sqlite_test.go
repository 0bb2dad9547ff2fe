package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/budgetiq/budgetiq/internal/common"
	"github.com/budgetiq/budgetiq/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestNew_UnusablePath(t *testing.T) {
	// A directory can't be opened as a database; New must not leak the
	// half-open handle.
	_, err := New(t.TempDir())
	require.Error(t, err)
}

func TestStore_ReplaceRecordsPreservesOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	recs := []model.Record{
		{ID: "3", Amount: 30, Category: "Food", Date: model.NewTime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))},
		{ID: "1", Amount: 10, Category: "Rent", Date: model.NewTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))},
		{ID: "2", Amount: 20, Category: "Bills", Date: model.NewTime(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))},
	}
	require.NoError(t, store.ReplaceRecords(ctx, "expense", recs))

	got, err := store.Records(ctx, "expense")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, model.RecordID("3"), got[0].ID, "snapshot keeps newest-first order")
	assert.Equal(t, model.RecordID("1"), got[1].ID)
	assert.Equal(t, model.RecordID("2"), got[2].ID)
	assert.True(t, got[0].Date.Equal(recs[0].Date.Time), "dates survive the round trip")

	// Replace is wholesale, not additive.
	require.NoError(t, store.ReplaceRecords(ctx, "expense", recs[:1]))
	got, err = store.Records(ctx, "expense")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_VariantsAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceRecords(ctx, "income", []model.Record{
		{ID: "i1", Amount: 5000, Category: "Salary", Source: "Acme", Date: model.NewTime(time.Now())},
	}))
	require.NoError(t, store.ReplaceRecords(ctx, "expense", []model.Record{
		{ID: "e1", Amount: 42, Category: "Food", Description: "lunch", Date: model.NewTime(time.Now())},
	}))

	income, err := store.Records(ctx, "income")
	require.NoError(t, err)
	require.Len(t, income, 1)
	assert.Equal(t, "Acme", income[0].Source)

	expenses, err := store.Records(ctx, "expense")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "lunch", expenses[0].Description)
}

func TestStore_SummaryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.Summary(ctx)
	assert.ErrorIs(t, err, common.ErrNoSnapshot)

	fetchedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	want := model.Summary{TotalIncome: 9000, TotalExpense: 4000, CurrentBalance: 5000}
	require.NoError(t, store.SaveSummary(ctx, want, fetchedAt))

	got, at, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.TotalIncome, got.TotalIncome)
	assert.Equal(t, want.TotalExpense, got.TotalExpense)
	assert.Equal(t, want.CurrentBalance, got.CurrentBalance)
	assert.True(t, at.Equal(fetchedAt))

	// Later fetches overwrite the single summary row.
	require.NoError(t, store.SaveSummary(ctx, model.Summary{CurrentBalance: 1}, fetchedAt.Add(time.Hour)))
	got, _, err = store.Summary(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1, got.CurrentBalance, 0.001)
}
