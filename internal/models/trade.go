package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeStatus string

const (
	TradeStatusClosed TradeStatus = "CLOSED"
)

// Trade is the canonical realized trade: one (lot-segment, closing-leg) pairing
// emitted by the matcher. Immutable after creation.
type Trade struct {
	ID         string          `json:"id"` // internal uuid, assigned at persist time
	Account    string          `json:"account"`
	Exchange   string          `json:"exchange"`
	Symbol     string          `json:"symbol"` // display symbol, strike+type embedded for options
	Underlying string          `json:"underlying"`
	AssetClass AssetClass      `json:"asset_class"`
	OptionType string          `json:"option_type,omitempty"`
	Strike     decimal.Decimal `json:"strike,omitempty"`
	Direction  Direction       `json:"direction"`

	EntryPrice decimal.Decimal `json:"entry_price"`
	ExitPrice  decimal.Decimal `json:"exit_price"`
	Quantity   decimal.Decimal `json:"quantity"`
	EntryDate  time.Time       `json:"entry_date"`
	ExitDate   time.Time       `json:"exit_date"`

	Fees       decimal.Decimal `json:"fees"` // attributed entry share + exit share
	Pnl        decimal.Decimal `json:"pnl"`  // net of fees
	PnlPercent decimal.Decimal `json:"pnl_percent"`

	Status TradeStatus `json:"status"`

	// ExternalOid is the broker's own id for the closing event, when the feed
	// provides one. Empty means dedup falls back to the fingerprint.
	ExternalOid string `json:"external_oid,omitempty"`
}

// Multiplier mirrors TransactionLeg.Multiplier for the realized record.
func (t Trade) Multiplier() decimal.Decimal {
	if t.AssetClass == AssetOption {
		return decimal.NewFromInt(100)
	}
	return decimal.NewFromInt(1)
}

// CostBasis is the capital committed by the entry segment of this trade.
func (t Trade) CostBasis() decimal.Decimal {
	return t.EntryPrice.Mul(t.Quantity).Mul(t.Multiplier())
}

// Proceeds is the gross amount realized by the exit segment.
func (t Trade) Proceeds() decimal.Decimal {
	return t.ExitPrice.Mul(t.Quantity).Mul(t.Multiplier())
}
