package service

import (
	"sort"
	"time"

	"trade_recon/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Params tune the tracker. Thresholds are percents of cost basis; the free
// latch fires at FreePct. GroupWindow merges lots that FIFO matching split
// but that belong to the same logical position.
type Params struct {
	GroupWindow   time.Duration
	RecoveringPct decimal.Decimal
	FreePct       decimal.Decimal
}

func DefaultParams() Params {
	return Params{
		GroupWindow:   24 * time.Hour,
		RecoveringPct: decimal.NewFromInt(50),
		FreePct:       hundred,
	}
}

// Tracker groups realized option trades into logical positions and computes
// cumulative cost-basis recovery across partial exits.
type Tracker struct {
	params Params
}

// NewTracker takes the thresholds as given, zero included; callers wanting
// the stock 50/100 use DefaultParams. Only a missing window falls back.
func NewTracker(params Params) *Tracker {
	if params.GroupWindow <= 0 {
		params.GroupWindow = 24 * time.Hour
	}
	return &Tracker{params: params}
}

type groupKey struct {
	underlying  string
	strike      string
	optionType  string
	entryWindow time.Time
}

// Build processes each group's trades in exit-time order and emits one
// ScaleOutEvent per closing trade. Recovery percent never decreases, and the
// free flag latches on the first event that reaches FreePct.
func (t *Tracker) Build(trades []models.Trade) []models.OptionPositionGroup {
	byKey := make(map[groupKey][]models.Trade)
	var order []groupKey

	for _, trade := range trades {
		if trade.AssetClass != models.AssetOption {
			continue
		}
		key := groupKey{
			underlying:  trade.Underlying,
			strike:      trade.Strike.String(),
			optionType:  trade.OptionType,
			entryWindow: trade.EntryDate.UTC().Truncate(t.params.GroupWindow),
		}
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], trade)
	}

	groups := make([]models.OptionPositionGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, t.buildGroup(key, byKey[key]))
	}

	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].EntryWindow.Equal(groups[j].EntryWindow) {
			return groups[i].EntryWindow.Before(groups[j].EntryWindow)
		}
		return groups[i].Underlying < groups[j].Underlying
	})
	return groups
}

func (t *Tracker) buildGroup(key groupKey, trades []models.Trade) models.OptionPositionGroup {
	sort.Slice(trades, func(i, j int) bool {
		return trades[i].ExitDate.Before(trades[j].ExitDate)
	})

	group := models.OptionPositionGroup{
		Account:     trades[0].Account,
		Underlying:  key.underlying,
		Strike:      trades[0].Strike,
		OptionType:  key.optionType,
		EntryWindow: key.entryWindow,
		Symbol:      trades[0].Symbol,
	}

	// cost basis covers every opening leg in the group up front, so early
	// scale-outs measure against the full committed capital
	for _, trade := range trades {
		group.CostBasis = group.CostBasis.Add(trade.CostBasis())
	}

	for _, trade := range trades {
		group.Proceeds = group.Proceeds.Add(trade.Proceeds())
		recovery := t.recoveryPercent(group.Proceeds, group.CostBasis)

		madeFree := false
		if !group.IsFree && recovery.GreaterThanOrEqual(t.params.FreePct) {
			group.IsFree = true
			madeFree = true
			freeAt := trade.ExitDate
			group.FreeAt = &freeAt
		}

		group.ScaleOutHistory = append(group.ScaleOutHistory, models.ScaleOutEvent{
			Date:                      trade.ExitDate,
			Quantity:                  trade.Quantity,
			Price:                     trade.ExitPrice,
			Pnl:                       trade.Pnl,
			CumulativeRecoveryPercent: recovery,
			MadeFree:                  madeFree,
		})
		group.PercentRecovered = recovery
	}

	group.Status = t.status(group.PercentRecovered)
	group.NotScaledOut = len(group.ScaleOutHistory) <= 1
	return group
}

// recoveryPercent clamps at zero and treats a zero basis as 0%.
func (t *Tracker) recoveryPercent(proceeds, costBasis decimal.Decimal) decimal.Decimal {
	if costBasis.IsZero() {
		return decimal.Zero
	}
	pct := proceeds.Div(costBasis).Mul(hundred)
	if pct.IsNegative() {
		return decimal.Zero
	}
	return pct
}

func (t *Tracker) status(recovery decimal.Decimal) models.RecoveryStatus {
	switch {
	case recovery.GreaterThanOrEqual(t.params.FreePct):
		return models.StatusFree
	case recovery.GreaterThanOrEqual(t.params.RecoveringPct):
		return models.StatusRecovering
	default:
		return models.StatusAtRisk
	}
}
