package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecoveryStatus string

const (
	StatusAtRisk     RecoveryStatus = "at risk"
	StatusRecovering RecoveryStatus = "recovering"
	StatusFree       RecoveryStatus = "free"
)

// ScaleOutEvent records one closing trade touching a position group.
// Append-only; CumulativeRecoveryPercent is the post-event value.
type ScaleOutEvent struct {
	Date                      time.Time       `json:"date"`
	Quantity                  decimal.Decimal `json:"quantity"`
	Price                     decimal.Decimal `json:"price"`
	Pnl                       decimal.Decimal `json:"pnl"`
	CumulativeRecoveryPercent decimal.Decimal `json:"cumulative_recovery_percent"`
	MadeFree                  bool            `json:"made_free"`
}

// OptionPositionGroup aggregates all realized trades of one logical option
// position: same underlying+strike+type opened within one entry window.
// Lots that FIFO-matching split apart re-merge here.
type OptionPositionGroup struct {
	Account     string          `json:"account"`
	Underlying  string          `json:"underlying"`
	Strike      decimal.Decimal `json:"strike"`
	OptionType  string          `json:"option_type"`
	EntryWindow time.Time       `json:"entry_window"` // window start, UTC
	Symbol      string          `json:"symbol"`       // display symbol of the first trade

	CostBasis        decimal.Decimal `json:"cost_basis"`
	Proceeds         decimal.Decimal `json:"proceeds"`
	PercentRecovered decimal.Decimal `json:"percent_recovered"`

	// IsFree latches true on the first event whose cumulative recovery reaches
	// 100% of cost basis and never reverts.
	IsFree bool       `json:"is_free"`
	FreeAt *time.Time `json:"free_at,omitempty"`

	Status RecoveryStatus `json:"status"`

	ScaleOutHistory []ScaleOutEvent `json:"scale_out_history"`

	// NotScaledOut marks groups closed in a single exit, for reporting of
	// missed partial-profit-taking.
	NotScaledOut bool `json:"not_scaled_out"`
}
