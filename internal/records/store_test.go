package records

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/budgetiq/budgetiq/internal/api"
	"github.com/budgetiq/budgetiq/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend is a minimal in-memory income/expense backend.
type stubBackend struct {
	mux         *http.ServeMux
	requests    atomic.Int64
	failWith    int
	nextID      atomic.Int64
	records     []model.Record
	lastDeleted string
}

func newStubBackend(path string) *stubBackend {
	b := &stubBackend{mux: http.NewServeMux()}

	b.mux.HandleFunc("GET "+path, func(w http.ResponseWriter, _ *http.Request) {
		b.requests.Add(1)
		_ = json.NewEncoder(w).Encode(b.records)
	})
	b.mux.HandleFunc("POST "+path, func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		if b.failWith != 0 {
			w.WriteHeader(b.failWith)
			_, _ = w.Write([]byte(`{"detail":"create rejected"}`))
			return
		}
		var draft model.RecordDraft
		_ = json.NewDecoder(r.Body).Decode(&draft)
		rec := model.Record{
			ID:          model.RecordID(fmt.Sprintf("i%d", b.nextID.Add(1))),
			Amount:      draft.Amount,
			Source:      draft.Source,
			Category:    draft.Category,
			Description: draft.Description,
			Date:        draft.Date,
		}
		b.records = append([]model.Record{rec}, b.records...)
		_ = json.NewEncoder(w).Encode(rec)
	})
	b.mux.HandleFunc("DELETE "+path+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		if b.failWith != 0 {
			w.WriteHeader(b.failWith)
			_, _ = w.Write([]byte(`{"detail":"delete rejected"}`))
			return
		}
		b.lastDeleted = r.PathValue("id")
		w.WriteHeader(http.StatusNoContent)
	})

	return b
}

func newTestStore(t *testing.T, variant Variant) (*Store, *stubBackend) {
	t.Helper()
	backend := newStubBackend(variant.Path)
	srv := httptest.NewServer(backend.mux)
	t.Cleanup(srv.Close)
	return NewStore(api.NewClient(srv.URL, nil), variant), backend
}

func TestStore_CreateIncomeScenario(t *testing.T) {
	store, _ := newTestStore(t, Income)
	require.NoError(t, store.Reload(context.Background()))
	before := store.TotalAmount()

	created, err := store.Create(context.Background(), model.RecordDraft{
		Amount:   5000,
		Source:   "Acme",
		Category: "Salary",
		Date:     model.NewTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	assert.Equal(t, model.RecordID("i1"), created.ID)

	list := store.List()
	require.NotEmpty(t, list)
	assert.Equal(t, model.RecordID("i1"), list[0].ID, "creates prepend newest-first")
	assert.InDelta(t, before+5000, store.TotalAmount(), 0.001)
}

func TestStore_ValidationNeverReachesNetwork(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		draft   model.RecordDraft
		wantMsg string
	}{
		{
			name:    "zero amount",
			variant: Expense,
			draft:   model.RecordDraft{Amount: 0, Category: "Food", Date: model.NewTime(time.Now())},
			wantMsg: "amount must be greater than zero",
		},
		{
			name:    "negative amount",
			variant: Income,
			draft:   model.RecordDraft{Amount: -10, Source: "Acme", Category: "Salary", Date: model.NewTime(time.Now())},
			wantMsg: "amount must be greater than zero",
		},
		{
			name:    "missing category",
			variant: Expense,
			draft:   model.RecordDraft{Amount: 10, Date: model.NewTime(time.Now())},
			wantMsg: "category is required",
		},
		{
			name:    "category outside allow-list",
			variant: Expense,
			draft:   model.RecordDraft{Amount: 10, Category: "Salary", Date: model.NewTime(time.Now())},
			wantMsg: "unknown expense category",
		},
		{
			name:    "income without source",
			variant: Income,
			draft:   model.RecordDraft{Amount: 10, Category: "Salary", Date: model.NewTime(time.Now())},
			wantMsg: "source is required",
		},
		{
			name:    "missing date",
			variant: Expense,
			draft:   model.RecordDraft{Amount: 10, Category: "Food"},
			wantMsg: "date is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, backend := newTestStore(t, tt.variant)

			_, err := store.Create(context.Background(), tt.draft)
			require.Error(t, err)
			assert.True(t, api.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Zero(t, backend.requests.Load(), "no request is sent")
			assert.Zero(t, store.Len(), "collection unchanged")
		})
	}
}

func TestStore_ExpenseDescriptionOptional(t *testing.T) {
	store, _ := newTestStore(t, Expense)

	_, err := store.Create(context.Background(), model.RecordDraft{
		Amount:   42.50,
		Category: "Food",
		Date:     model.NewTime(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestStore_RemoveIsPessimistic(t *testing.T) {
	store, backend := newTestStore(t, Income)

	created, err := store.Create(context.Background(), model.RecordDraft{
		Amount: 100, Source: "Acme", Category: "Salary", Date: model.NewTime(time.Now()),
	})
	require.NoError(t, err)

	// Server rejects the delete: the record must still be visible.
	backend.failWith = http.StatusInternalServerError
	err = store.Remove(context.Background(), created.ID)
	require.Error(t, err)

	kind, ok := api.ErrKind(err)
	require.True(t, ok)
	assert.Equal(t, api.KindRejected, kind)
	assert.Equal(t, 1, store.Len(), "cache untouched after rejected delete")

	// Server accepts: now it disappears.
	backend.failWith = 0
	require.NoError(t, store.Remove(context.Background(), created.ID))
	assert.Zero(t, store.Len())

	// Removing an id the cache no longer holds still round-trips cleanly.
	require.NoError(t, store.Remove(context.Background(), created.ID))
}

func TestStore_RemoveEscapesID(t *testing.T) {
	store, backend := newTestStore(t, Income)

	// An id with reserved characters must travel as a single path segment.
	require.NoError(t, store.Remove(context.Background(), model.RecordID("a/b c")))
	assert.Equal(t, "a/b c", backend.lastDeleted)
}

func TestStore_TotalAmountIsPureFold(t *testing.T) {
	store, _ := newTestStore(t, Expense)

	amounts := []float64{10.25, 99.99, 0.01, 250}
	var want float64
	for _, amount := range amounts {
		_, err := store.Create(context.Background(), model.RecordDraft{
			Amount: amount, Category: "Bills", Date: model.NewTime(time.Now()),
		})
		require.NoError(t, err)
		want += amount
	}

	assert.InDelta(t, want, store.TotalAmount(), 0.001)

	list := store.List()
	require.NoError(t, store.Remove(context.Background(), list[0].ID))
	assert.InDelta(t, want-list[0].Amount, store.TotalAmount(), 0.001)
}

func TestStore_ReloadReplacesWholesale(t *testing.T) {
	store, backend := newTestStore(t, Income)

	_, err := store.Create(context.Background(), model.RecordDraft{
		Amount: 100, Source: "Acme", Category: "Salary", Date: model.NewTime(time.Now()),
	})
	require.NoError(t, err)

	// Server-side state diverges; reload adopts it wholesale.
	backend.records = []model.Record{
		{ID: "s1", Amount: 7, Category: "Other", Source: "Elsewhere", Date: model.NewTime(time.Now())},
		{ID: "s2", Amount: 3, Category: "Other", Source: "Elsewhere", Date: model.NewTime(time.Now())},
	}
	require.NoError(t, store.Reload(context.Background()))

	assert.Equal(t, 2, store.Len())
	assert.InDelta(t, 10, store.TotalAmount(), 0.001)
}

func TestStore_CanceledContextDropsPatch(t *testing.T) {
	variant := Income
	backend := newStubBackend(variant.Path)
	srv := httptest.NewServer(backend.mux)
	t.Cleanup(srv.Close)

	store := NewStore(api.NewClient(srv.URL, nil), variant)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Create(ctx, model.RecordDraft{
		Amount: 100, Source: "Acme", Category: "Salary", Date: model.NewTime(time.Now()),
	})
	require.Error(t, err)
	assert.Zero(t, store.Len(), "a canceled scope never patches the cache")
}
