package service

import (
	"strings"

	"trade_recon/internal/models"
)

// Fingerprint is the fallback trade identity when the feed supplies no
// external oid: exchange|symbol|exit day|pnl rounded to cents|quantity.
//
// Known limitation: two genuinely distinct trades closed the same day with
// the same rounded pnl and quantity collide and dedup as one. That tolerance
// (false-positive dedup over double-counting) is intentional; do not add
// entropy here or re-runs stop recognizing their own rows.
func Fingerprint(t models.Trade) string {
	return strings.Join([]string{
		t.Exchange,
		t.Symbol,
		t.ExitDate.UTC().Format("2006-01-02"),
		t.Pnl.Round(2).StringFixed(2),
		t.Quantity.String(),
	}, "|")
}

// Identity prefers the broker's own id, scoped per exchange, and falls back
// to the fingerprint.
func Identity(t models.Trade) string {
	if t.ExternalOid != "" {
		return "oid:" + t.Exchange + "|" + t.ExternalOid
	}
	return "fp:" + Fingerprint(t)
}
