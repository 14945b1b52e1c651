package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenLot is an unmatched opening leg waiting for closure. Owned by the
// matcher's per-instrument queue; shrinks by partial consumption and is
// dropped once RemainingQty hits zero. Fees holds the not-yet-attributed
// remainder of the opening fee and is consumed pro-rata with the quantity.
type OpenLot struct {
	InstrumentKey string
	Account       string
	Exchange      string
	Symbol        string
	Underlying    string
	AssetClass    AssetClass
	OptionType    string
	Strike        decimal.Decimal

	OpenDate     time.Time
	Price        decimal.Decimal
	RemainingQty decimal.Decimal
	Direction    Direction
	Fees         decimal.Decimal
}
