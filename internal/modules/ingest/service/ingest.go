package service

import (
	"context"
	"fmt"
	"time"

	"trade_recon/internal/models"
	"trade_recon/pkg/logger"

	"github.com/google/uuid"
)

// TradeStore is the persistence contract the ingest service runs against.
// Inserts must be insert-if-absent on the identity key; deleting an unknown
// id must be a no-op.
type TradeStore interface {
	IdentitySet(ctx context.Context, account string) (map[string]struct{}, error)
	InsertTrades(ctx context.Context, trades []models.Trade) (int, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	ListTrades(ctx context.Context, account string, from, to time.Time) ([]models.Trade, error)
}

// Ingest filters freshly matched trades against the persisted identity set
// and persists only the genuinely new ones. Re-running the same upstream
// batch never increases the row count.
type Ingest struct {
	store       TradeStore
	deleteChunk int
}

func NewIngest(store TradeStore, deleteChunk int) *Ingest {
	if deleteChunk <= 0 {
		deleteChunk = 200
	}
	return &Ingest{
		store:       store,
		deleteChunk: deleteChunk,
	}
}

// FilterNew drops every candidate whose external oid or fingerprint is
// already persisted for the account, plus intra-batch repeats. Returns the
// insertable subset and the duplicate count.
func (i *Ingest) FilterNew(
	ctx context.Context,
	account string,
	candidates []models.Trade,
) (fresh []models.Trade, duplicates int, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ingest.FilterNew: %w", err)
		}
	}()

	known, err := i.store.IdentitySet(ctx, account)
	if err != nil {
		return nil, 0, err
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, t := range candidates {
		id := Identity(t)
		if _, ok := known[id]; ok {
			duplicates++
			continue
		}
		if _, ok := seen[id]; ok {
			duplicates++
			continue
		}
		seen[id] = struct{}{}
		fresh = append(fresh, t)
	}
	return fresh, duplicates, nil
}

// Persist assigns row ids and inserts. The store's conflict handling keeps
// this safe to retry; a store failure aborts the remainder and propagates so
// the sync is not marked complete.
func (i *Ingest) Persist(ctx context.Context, trades []models.Trade) (inserted int, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ingest.Persist: %w", err)
		}
	}()

	for idx := range trades {
		if trades[idx].ID == "" {
			trades[idx].ID = uuid.NewString()
		}
	}
	return i.store.InsertTrades(ctx, trades)
}

// DeleteByIDs removes previously-inserted rows in bounded chunks. Already
// deleted ids are skipped silently by the store, so re-running a cleanup
// after a partial failure is safe.
func (i *Ingest) DeleteByIDs(ctx context.Context, ids []string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ingest.DeleteByIDs: %w", err)
		}
	}()

	for len(ids) > 0 {
		n := i.deleteChunk
		if n > len(ids) {
			n = len(ids)
		}
		if err = i.store.DeleteByIDs(ctx, ids[:n]); err != nil {
			return err
		}
		logger.Info("deleted %d trade rows", n)
		ids = ids[n:]
	}
	return nil
}

// ListTrades is the pass-through read used by the lifecycle tracker.
func (i *Ingest) ListTrades(ctx context.Context, account string, from, to time.Time) ([]models.Trade, error) {
	return i.store.ListTrades(ctx, account, from, to)
}
