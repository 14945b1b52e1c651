package service

import (
	"context"
	"fmt"
	"time"

	"trade_recon/internal/models"
)

// TradeReader is the slice of the trade store the lifecycle needs.
type TradeReader interface {
	ListTrades(ctx context.Context, account string, from, to time.Time) ([]models.Trade, error)
}

// Lifecycle is the derived-read surface for reporting collaborators: position
// groups with their scale-out history, computed from persisted trades.
type Lifecycle struct {
	reader  TradeReader
	tracker *Tracker
}

func NewLifecycle(reader TradeReader, tracker *Tracker) *Lifecycle {
	return &Lifecycle{
		reader:  reader,
		tracker: tracker,
	}
}

// GroupsForAccount loads the account's trades for the range and derives the
// position groups. State is recomputed per call; trades are the source of
// truth, groups are a view.
func (l *Lifecycle) GroupsForAccount(
	ctx context.Context,
	account string,
	from, to time.Time,
) (groups []models.OptionPositionGroup, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Lifecycle.GroupsForAccount: %w", err)
		}
	}()

	trades, err := l.reader.ListTrades(ctx, account, from, to)
	if err != nil {
		return nil, err
	}
	return l.tracker.Build(trades), nil
}
