package service

import (
	"testing"
	"time"

	"trade_recon/internal/models"

	"github.com/shopspring/decimal"
)

func TestFingerprintComposition(t *testing.T) {
	tr := models.Trade{
		Exchange: "tasty",
		Symbol:   "AAPL C150",
		ExitDate: time.Date(2024, 3, 5, 23, 45, 0, 0, time.UTC),
		Pnl:      decimal.NewFromFloat(1199.996),
		Quantity: decimal.NewFromInt(6),
	}

	got := Fingerprint(tr)
	want := "tasty|AAPL C150|2024-03-05|1200.00|6"
	if got != want {
		t.Errorf("Fingerprint = %q, want %q", got, want)
	}
}

func TestFingerprintDayGranularity(t *testing.T) {
	a := models.Trade{Exchange: "tasty", Symbol: "AAPL C150",
		ExitDate: time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC),
		Pnl:      decimal.NewFromInt(100), Quantity: decimal.NewFromInt(1)}
	b := a
	b.ExitDate = time.Date(2024, 3, 5, 16, 0, 0, 0, time.UTC)

	if Fingerprint(a) != Fingerprint(b) {
		t.Errorf("same-day trades must share a fingerprint: %q vs %q", Fingerprint(a), Fingerprint(b))
	}

	b.ExitDate = b.ExitDate.Add(24 * time.Hour)
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("different-day trades must not share a fingerprint")
	}
}

func TestIdentityPrefersExternalOid(t *testing.T) {
	tr := models.Trade{
		Exchange:    "tasty",
		Symbol:      "AAPL C150",
		ExitDate:    time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Pnl:         decimal.NewFromInt(100),
		Quantity:    decimal.NewFromInt(1),
		ExternalOid: "oid-42",
	}

	if got, want := Identity(tr), "oid:tasty|oid-42"; got != want {
		t.Errorf("Identity = %q, want %q", got, want)
	}

	tr.ExternalOid = ""
	if got, want := Identity(tr), "fp:"+Fingerprint(tr); got != want {
		t.Errorf("Identity fallback = %q, want %q", got, want)
	}
}
