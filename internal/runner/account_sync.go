package runner

import (
	"context"
	"fmt"
	"time"

	"trade_recon/internal/models"
	"trade_recon/internal/modules/config"
	"trade_recon/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

// SyncAccount runs the single-pass reconciliation for one account:
// fetch ordered transactions, FIFO-match them into realized trades, filter
// duplicates against the store and persist the remainder. Safe to re-run
// wholesale: a second pass over the same upstream batch inserts nothing.
func (r *Runner) SyncAccount(ctx context.Context, acc config.Account) (rep *models.SyncReport, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "account_sync")
	span.SetTag("account", acc.ID)
	defer span.Finish()

	defer func() {
		if err != nil {
			err = fmt.Errorf("SyncAccount %s: %w", acc.ID, err)
		}
	}()

	rep = &models.SyncReport{
		Account:   acc.ID,
		StartedAt: time.Now().UTC(),
	}

	to := time.Now().UTC()
	from := to.Add(-r.cfg.SyncLookback)

	txs, err := r.feedFor(acc).GetTransactions(ctx, acc.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	rep.TransactionsFetched = len(txs)

	res := r.matcher.Match(txs)
	rep.TradesMatched = len(res.Trades)
	rep.MalformedSkipped = res.MalformedSkipped
	rep.OpenLotsRemaining = len(res.OpenLots)
	rep.UnmatchedCloses = res.UnmatchedCloses

	fresh, duplicates, err := r.ingest.FilterNew(ctx, acc.ID, res.Trades)
	if err != nil {
		return nil, err
	}
	rep.DuplicatesFiltered = duplicates

	// store failure aborts here and leaves the sync incomplete; the retry
	// re-attempts the same batch and dedup keeps it from double-inserting
	inserted, err := r.ingest.Persist(ctx, fresh)
	if err != nil {
		return nil, err
	}
	rep.TradesInserted = inserted

	// derived view over everything now persisted for the account, so the
	// report reflects groups merged across past syncs too
	groups, err := r.lifecycle.GroupsForAccount(ctx, acc.ID, from, to)
	if err != nil {
		return nil, err
	}
	rep.PositionGroups = len(groups)
	for _, g := range groups {
		if g.IsFree {
			rep.FreePositions++
		}
		if g.NotScaledOut {
			rep.NotScaledOut++
		}
	}

	logger.Info("account=%s fetched=%d matched=%d inserted=%d dup=%d unmatched=%d",
		acc.ID, rep.TransactionsFetched, rep.TradesMatched, rep.TradesInserted,
		rep.DuplicatesFiltered, len(rep.UnmatchedCloses))
	return rep, nil
}
