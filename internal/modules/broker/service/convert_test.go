package service

import (
	"testing"

	"trade_recon/internal/models"

	"github.com/shopspring/decimal"
)

func TestConvertLeg(t *testing.T) {
	t.Run("option leg", func(t *testing.T) {
		leg, err := convertLeg(legDTO{
			AssetClass: "option",
			Symbol:     "AAPL240419C00150000",
			Underlying: "AAPL",
			OptionType: "CALL",
			Strike:     "150",
			Expiry:     "2024-04-19",
			Quantity:   "-6",
			Price:      "4.00",
			Fee:        "1.30",
			Effect:     "close",
		})
		if err != nil {
			t.Fatalf("convertLeg: %v", err)
		}
		if leg.AssetClass != models.AssetOption {
			t.Errorf("AssetClass = %s, want OPTION", leg.AssetClass)
		}
		if leg.Effect != models.EffectClose {
			t.Errorf("Effect = %s, want CLOSE", leg.Effect)
		}
		if !leg.SignedQty.Equal(decimal.NewFromInt(-6)) {
			t.Errorf("SignedQty = %s, want -6", leg.SignedQty.String())
		}
		if !leg.Qty().Equal(decimal.NewFromInt(6)) {
			t.Errorf("Qty = %s, want 6", leg.Qty().String())
		}
		if !leg.Multiplier().Equal(decimal.NewFromInt(100)) {
			t.Errorf("Multiplier = %s, want 100", leg.Multiplier().String())
		}
		if leg.InstrumentKey() != "OPTION:AAPL240419C00150000" {
			t.Errorf("InstrumentKey = %q", leg.InstrumentKey())
		}
	})

	t.Run("fee-only leg without effect", func(t *testing.T) {
		leg, err := convertLeg(legDTO{
			AssetClass: "equity",
			Symbol:     "AAPL",
			Fee:        "0.35",
			FeeType:    "commission",
		})
		if err != nil {
			t.Fatalf("convertLeg: %v", err)
		}
		if !leg.FeeOnly {
			t.Error("FeeOnly must be set")
		}
	})

	t.Run("rejects unknown asset class", func(t *testing.T) {
		if _, err := convertLeg(legDTO{AssetClass: "future", Effect: "open"}); err == nil {
			t.Error("expected error for unknown asset class")
		}
	})

	t.Run("rejects missing effect on trade leg", func(t *testing.T) {
		if _, err := convertLeg(legDTO{AssetClass: "equity", Quantity: "1"}); err == nil {
			t.Error("expected error for missing effect")
		}
	})

	t.Run("rejects bad quantity", func(t *testing.T) {
		if _, err := convertLeg(legDTO{AssetClass: "equity", Effect: "open", Quantity: "ten"}); err == nil {
			t.Error("expected error for unparseable quantity")
		}
	})
}

func TestConvertTransaction(t *testing.T) {
	dto := transactionDTO{
		ID:       "tx-1",
		Exchange: "tasty",
		Date:     "2024-03-01T14:30:00Z",
		Legs: []legDTO{{
			AssetClass: "equity",
			Symbol:     "AAPL",
			Underlying: "AAPL",
			Quantity:   "100",
			Price:      "10.00",
			Effect:     "open",
		}},
	}

	tx, err := convertTransaction("ACC-001", dto)
	if err != nil {
		t.Fatalf("convertTransaction: %v", err)
	}
	if tx.Account != "ACC-001" || tx.Exchange != "tasty" {
		t.Errorf("account/exchange = %q/%q", tx.Account, tx.Exchange)
	}
	if len(tx.Legs) != 1 {
		t.Fatalf("legs = %d, want 1", len(tx.Legs))
	}

	dto.Date = "yesterday"
	if _, err := convertTransaction("ACC-001", dto); err == nil {
		t.Error("expected error for bad date")
	}
}
