package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnmatchedClose is a data-quality finding: a closing leg consumed every open
// lot for its instrument and still had quantity left. Usually means the
// opening transaction predates the fetch window.
type UnmatchedClose struct {
	InstrumentKey string          `json:"instrument_key"`
	TransactionID string          `json:"transaction_id"`
	Date          time.Time       `json:"date"`
	UnmatchedQty  decimal.Decimal `json:"unmatched_qty"`
	Price         decimal.Decimal `json:"price"`
}

// SyncReport summarizes one account sync run. Findings are reported here, not
// raised as errors: a bad record never aborts the batch.
type SyncReport struct {
	Account   string    `json:"account"`
	StartedAt time.Time `json:"started_at"`

	TransactionsFetched int `json:"transactions_fetched"`
	MalformedSkipped    int `json:"malformed_skipped"`
	TradesMatched       int `json:"trades_matched"`
	TradesInserted      int `json:"trades_inserted"`
	DuplicatesFiltered  int `json:"duplicates_filtered"`
	OpenLotsRemaining   int `json:"open_lots_remaining"`

	PositionGroups int `json:"position_groups"`
	FreePositions  int `json:"free_positions"`
	NotScaledOut   int `json:"not_scaled_out"`

	UnmatchedCloses []UnmatchedClose `json:"unmatched_closes,omitempty"`
}
