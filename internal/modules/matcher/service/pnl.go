package service

import (
	"fmt"

	"trade_recon/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// grossPnl is the fee-free realized result of one matched segment.
// LONG profits when exit > entry, SHORT when entry > exit.
func grossPnl(dir models.Direction, entry, exit, qty, mult decimal.Decimal) decimal.Decimal {
	diff := exit.Sub(entry)
	if dir == models.DirectionShort {
		diff = entry.Sub(exit)
	}
	return diff.Mul(qty).Mul(mult)
}

// pnlPercent relates net pnl to the segment's cost basis. Zero basis
// (e.g. zero-premium legs) reports 0 rather than dividing.
func pnlPercent(pnl, entry, qty, mult decimal.Decimal) decimal.Decimal {
	basis := entry.Mul(qty).Mul(mult)
	if basis.IsZero() {
		return decimal.Zero
	}
	return pnl.Div(basis).Mul(hundred)
}

// displaySymbol embeds strike and type for options, e.g. "AAPL C150".
// Equities keep the raw symbol.
func displaySymbol(lot *models.OpenLot) string {
	if lot.AssetClass != models.AssetOption {
		return lot.Symbol
	}
	side := "C"
	if lot.OptionType == "PUT" {
		side = "P"
	}
	return fmt.Sprintf("%s %s%s", lot.Underlying, side, lot.Strike.String())
}
