package service

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"
	"time"

	"trade_recon/internal/models"
	"trade_recon/pkg/logger"

	"github.com/shopspring/decimal"
)

func TestMain(m *testing.M) {
	logger.InitNop()
	os.Exit(m.Run())
}

var errStoreDown = errors.New("store down")

// fakeStore mimics the pg store's conflict surface: oid rows conflict only on
// the oid index, oid-less rows only on the fingerprint index, and delete of
// unknown ids is a no-op.
type fakeStore struct {
	rows        map[string]models.Trade // row id -> trade
	identities  map[string]string       // identity -> row id
	deleteCalls [][]string
	failInsert  bool
	failList    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:       make(map[string]models.Trade),
		identities: make(map[string]string),
	}
}

func (f *fakeStore) IdentitySet(_ context.Context, account string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	for id, rowID := range f.identities {
		if f.rows[rowID].Account == account {
			set[id] = struct{}{}
		}
	}
	return set, nil
}

func (f *fakeStore) InsertTrades(_ context.Context, trades []models.Trade) (int, error) {
	if f.failInsert {
		return 0, errStoreDown
	}
	inserted := 0
	for _, t := range trades {
		id := Identity(t)
		if _, ok := f.identities[id]; ok {
			continue // ON CONFLICT DO NOTHING
		}
		f.rows[t.ID] = t
		f.identities[id] = t.ID
		inserted++
	}
	return inserted, nil
}

func (f *fakeStore) DeleteByIDs(_ context.Context, ids []string) error {
	f.deleteCalls = append(f.deleteCalls, append([]string(nil), ids...))
	for _, id := range ids {
		if t, ok := f.rows[id]; ok {
			delete(f.identities, Identity(t))
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeStore) ListTrades(_ context.Context, account string, from, to time.Time) ([]models.Trade, error) {
	if f.failList {
		return nil, errStoreDown
	}
	var out []models.Trade
	for _, t := range f.rows {
		if t.Account == account && !t.ExitDate.Before(from) && !t.ExitDate.After(to) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExitDate.Before(out[j].ExitDate) })
	return out, nil
}

func sampleTrade(oid string, pnl float64) models.Trade {
	return models.Trade{
		Account:     "ACC-001",
		Exchange:    "tasty",
		Symbol:      "AAPL C150",
		Underlying:  "AAPL",
		AssetClass:  models.AssetOption,
		OptionType:  "CALL",
		Strike:      decimal.NewFromInt(150),
		Direction:   models.DirectionLong,
		EntryPrice:  decimal.NewFromFloat(2.00),
		ExitPrice:   decimal.NewFromFloat(3.00),
		Quantity:    decimal.NewFromInt(4),
		EntryDate:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		ExitDate:    time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC),
		Pnl:         decimal.NewFromFloat(pnl),
		Status:      models.TradeStatusClosed,
		ExternalOid: oid,
	}
}

// Inserting a trade, then a second record with a different internal id but
// the same fingerprint, leaves exactly one persisted row.
func TestDedupByFingerprint(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	ing := NewIngest(store, 100)

	first := sampleTrade("", 400) // no external oid -> fingerprint identity
	fresh, dups, err := ing.FilterNew(ctx, "ACC-001", []models.Trade{first})
	if err != nil {
		t.Fatalf("FilterNew: %v", err)
	}
	if dups != 0 || len(fresh) != 1 {
		t.Fatalf("fresh=%d dups=%d, want 1/0", len(fresh), dups)
	}
	if _, err := ing.Persist(ctx, fresh); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	second := sampleTrade("", 400)
	second.ID = "completely-different-id"
	fresh, dups, err = ing.FilterNew(ctx, "ACC-001", []models.Trade{second})
	if err != nil {
		t.Fatalf("FilterNew: %v", err)
	}
	if dups != 1 || len(fresh) != 0 {
		t.Errorf("fresh=%d dups=%d, want 0/1", len(fresh), dups)
	}
	if len(store.rows) != 1 {
		t.Errorf("persisted rows = %d, want 1", len(store.rows))
	}
}

// Two genuinely distinct trades can share a fingerprint — equal-size
// scale-outs at the same price in one day. With distinct broker oids both
// must persist; the fingerprint never collapses oid-bearing rows.
func TestInsertDistinctOidsSharedFingerprint(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	ing := NewIngest(store, 100)

	batch := []models.Trade{sampleTrade("t2-0", 400), sampleTrade("t3-0", 400)}
	if Fingerprint(batch[0]) != Fingerprint(batch[1]) {
		t.Fatal("fixture trades must share a fingerprint")
	}

	fresh, dups, err := ing.FilterNew(ctx, "ACC-001", batch)
	if err != nil {
		t.Fatalf("FilterNew: %v", err)
	}
	if len(fresh) != 2 || dups != 0 {
		t.Fatalf("fresh=%d dups=%d, want 2/0", len(fresh), dups)
	}
	n, err := ing.Persist(ctx, fresh)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if n != 2 || len(store.rows) != 2 {
		t.Errorf("inserted=%d rows=%d, want 2/2", n, len(store.rows))
	}
}

// An oid row's fingerprint is not an identity: an oid-less candidate that
// happens to share it is new, not a duplicate.
func TestFilterNewOidRowDoesNotShadowFingerprint(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	ing := NewIngest(store, 100)

	withOid := sampleTrade("oid-1", 400)
	if _, err := ing.Persist(ctx, []models.Trade{withOid}); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	oidless := sampleTrade("", 400)
	if Fingerprint(oidless) != Fingerprint(withOid) {
		t.Fatal("fixture trades must share a fingerprint")
	}
	fresh, dups, err := ing.FilterNew(ctx, "ACC-001", []models.Trade{oidless})
	if err != nil {
		t.Fatalf("FilterNew: %v", err)
	}
	if len(fresh) != 1 || dups != 0 {
		t.Errorf("fresh=%d dups=%d, want 1/0", len(fresh), dups)
	}
}

// Re-ingesting an identical batch yields zero net new rows on the second pass.
func TestIdempotentIngestion(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	ing := NewIngest(store, 100)

	batch := []models.Trade{
		sampleTrade("oid-1", 400),
		sampleTrade("oid-2", -150),
	}

	run := func() int {
		fresh, _, err := ing.FilterNew(ctx, "ACC-001", batch)
		if err != nil {
			t.Fatalf("FilterNew: %v", err)
		}
		n, err := ing.Persist(ctx, fresh)
		if err != nil {
			t.Fatalf("Persist: %v", err)
		}
		return n
	}

	if n := run(); n != 2 {
		t.Fatalf("first pass inserted %d, want 2", n)
	}
	if n := run(); n != 0 {
		t.Errorf("second pass inserted %d, want 0", n)
	}
	if len(store.rows) != 2 {
		t.Errorf("persisted rows = %d, want 2", len(store.rows))
	}
}

func TestFilterNewIntraBatchRepeat(t *testing.T) {
	ctx := context.Background()
	ing := NewIngest(newFakeStore(), 100)

	batch := []models.Trade{sampleTrade("oid-1", 400), sampleTrade("oid-1", 400)}
	fresh, dups, err := ing.FilterNew(ctx, "ACC-001", batch)
	if err != nil {
		t.Fatalf("FilterNew: %v", err)
	}
	if len(fresh) != 1 || dups != 1 {
		t.Errorf("fresh=%d dups=%d, want 1/1", len(fresh), dups)
	}
}

// Deletion runs in bounded chunks and re-running the same id list is a no-op.
func TestDeleteByIDsChunked(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	ing := NewIngest(store, 2)

	var batch []models.Trade
	for _, oid := range []string{"a", "b", "c", "d", "e"} {
		batch = append(batch, sampleTrade(oid, 100))
	}
	fresh, _, err := ing.FilterNew(ctx, "ACC-001", batch)
	if err != nil {
		t.Fatalf("FilterNew: %v", err)
	}
	if _, err := ing.Persist(ctx, fresh); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	var ids []string
	for id := range store.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if err := ing.DeleteByIDs(ctx, ids); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if got := len(store.deleteCalls); got != 3 {
		t.Fatalf("delete calls = %d, want 3 (chunks of 2)", got)
	}
	for i, call := range store.deleteCalls {
		if len(call) > 2 {
			t.Errorf("chunk %d size = %d, exceeds limit 2", i, len(call))
		}
	}
	if len(store.rows) != 0 {
		t.Errorf("rows left = %d, want 0", len(store.rows))
	}

	// second run over the same ids deletes nothing and fails nothing
	if err := ing.DeleteByIDs(ctx, ids); err != nil {
		t.Errorf("re-run DeleteByIDs: %v", err)
	}
}

func TestPersistPropagatesStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.failInsert = true
	ing := NewIngest(store, 100)

	_, err := ing.Persist(ctx, []models.Trade{sampleTrade("oid-1", 400)})
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if !errors.Is(err, errStoreDown) {
		t.Errorf("err = %v, want wrapped errStoreDown", err)
	}
}
