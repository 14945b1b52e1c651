package notify

import (
	"strings"
	"testing"
	"time"

	"trade_recon/internal/models"

	"github.com/shopspring/decimal"
)

func TestFormatReport(t *testing.T) {
	rep := &models.SyncReport{
		Account:             "ACC-001",
		StartedAt:           time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
		TransactionsFetched: 12,
		TradesMatched:       5,
		TradesInserted:      3,
		DuplicatesFiltered:  2,
		MalformedSkipped:    1,
		OpenLotsRemaining:   4,
		PositionGroups:      2,
		FreePositions:       1,
		NotScaledOut:        1,
		UnmatchedCloses: []models.UnmatchedClose{{
			InstrumentKey: "OPTION:AAPL240419C00150000",
			TransactionID: "tx-9",
			UnmatchedQty:  decimal.NewFromInt(4),
			Price:         decimal.NewFromFloat(3.00),
		}},
	}

	out := FormatReport(rep)
	for _, want := range []string{
		"ACC-001",
		"fetched=12 matched=5 inserted=3 dup=2 malformed=1 open_lots=4",
		"option groups=2 free=1 not_scaled_out=1",
		"OPTION:AAPL240419C00150000",
		"tx=tx-9 qty=4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatReportNoFindings(t *testing.T) {
	out := FormatReport(&models.SyncReport{Account: "ACC-002"})
	if strings.Contains(out, "unmatched closes") {
		t.Errorf("clean report must not mention findings:\n%s", out)
	}
}
