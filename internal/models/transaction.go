package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetClass string

const (
	AssetEquity AssetClass = "EQUITY"
	AssetOption AssetClass = "OPTION"
)

type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

type PositionEffect string

const (
	EffectOpen  PositionEffect = "OPEN"
	EffectClose PositionEffect = "CLOSE"
)

// TransactionLeg is one instrument movement inside a broker transaction.
// Symbol carries the exact contract identity (OCC-style for options), so two
// legs on the same underlying but different strike/type never collide.
type TransactionLeg struct {
	AssetClass AssetClass      `json:"asset_class"`
	Symbol     string          `json:"symbol"`
	Underlying string          `json:"underlying"`
	OptionType string          `json:"option_type,omitempty"` // CALL/PUT, empty for equity
	Strike     decimal.Decimal `json:"strike,omitempty"`
	Expiry     time.Time       `json:"expiry,omitempty"`

	// SignedQty: sign encodes direction on opening legs (buy-to-open > 0 => LONG,
	// sell-to-open < 0 => SHORT). Closing legs carry the closed size.
	SignedQty decimal.Decimal `json:"signed_qty"`
	Price     decimal.Decimal `json:"price"`
	Fee       decimal.Decimal `json:"fee"`

	Effect  PositionEffect `json:"effect"`
	FeeOnly bool           `json:"fee_only,omitempty"` // commission/adjustment payload, no trade leg
}

// RawTransaction is one broker-reported event as delivered by the feed,
// immutable, ordered by Timestamp within an account.
type RawTransaction struct {
	ID        string           `json:"id"`
	Account   string           `json:"account"`
	Exchange  string           `json:"exchange"`
	Timestamp time.Time        `json:"timestamp"`
	Legs      []TransactionLeg `json:"legs"`
}

// InstrumentKey is the FIFO queue key: exact contract identity per asset class.
func (l TransactionLeg) InstrumentKey() string {
	return string(l.AssetClass) + ":" + l.Symbol
}

// Qty is the absolute leg size.
func (l TransactionLeg) Qty() decimal.Decimal {
	return l.SignedQty.Abs()
}

// Multiplier: options settle per 100 units, everything else 1:1.
func (l TransactionLeg) Multiplier() decimal.Decimal {
	if l.AssetClass == AssetOption {
		return decimal.NewFromInt(100)
	}
	return decimal.NewFromInt(1)
}
