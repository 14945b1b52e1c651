package runner

import (
	"context"
	"sync"
	"time"

	"trade_recon/internal/models"
	"trade_recon/internal/modules/config"
	ingest "trade_recon/internal/modules/ingest/service"
	lifecycle "trade_recon/internal/modules/lifecycle/service"
	matcher "trade_recon/internal/modules/matcher/service"
	"trade_recon/internal/notify"
	"trade_recon/pkg/logger"
)

// Feed supplies ordered raw transaction batches. Satisfied by the broker
// client; tests plug their own.
type Feed interface {
	GetTransactions(ctx context.Context, account string, from, to time.Time) ([]models.RawTransaction, error)
}

// FeedFactory binds a feed to one account's credentials.
type FeedFactory func(acc config.Account) Feed

// Runner drives one full reconciliation pass: fetch -> match -> dedup ->
// persist, once per account. Matcher state is scoped to a single account run,
// so accounts reconcile in parallel without locking; the store is the only
// shared resource and every insert is independently idempotent.
type Runner struct {
	cfg       *config.Config
	feedFor   FeedFactory
	matcher   *matcher.Matcher
	ingest    *ingest.Ingest
	lifecycle *lifecycle.Lifecycle
	notifier  notify.Notifier
}

func New(
	cfg *config.Config,
	feedFor FeedFactory,
	m *matcher.Matcher,
	ing *ingest.Ingest,
	lc *lifecycle.Lifecycle,
	notifier notify.Notifier,
) *Runner {
	return &Runner{
		cfg:       cfg,
		feedFor:   feedFor,
		matcher:   m,
		ingest:    ing,
		lifecycle: lc,
		notifier:  notifier,
	}
}

// Run fans the configured accounts out over a bounded worker set. One
// account's failure never touches the others; it is logged, reported and the
// next retryable sync picks the same batch up again.
func (r *Runner) Run(ctx context.Context) {
	sem := make(chan struct{}, r.cfg.MaxParallelAccounts)
	var wg sync.WaitGroup

	for _, acc := range r.cfg.Accounts {
		acc := acc
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			rep, err := r.SyncAccount(ctx, acc)
			if err != nil {
				logger.Error("sync failed account=%s: %v", acc.ID, err)
				r.notifier.Sendf("Sync %s FAILED: %v", acc.ID, err)
				return
			}
			r.notifier.Report(rep)
		}()
	}
	wg.Wait()
}
