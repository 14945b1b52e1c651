package service

import (
	"fmt"

	"trade_recon/internal/models"
	"trade_recon/pkg/logger"

	"github.com/shopspring/decimal"
)

// Matcher pairs opening and closing transaction legs into realized trades,
// strictly FIFO per instrument key. All state lives in the per-call queue map,
// so one instance serves any number of concurrent account runs.
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Result of one account's matching pass.
type Result struct {
	Trades           []models.Trade
	OpenLots         []*models.OpenLot
	UnmatchedCloses  []models.UnmatchedClose
	MalformedSkipped int
}

// Match consumes a time-ordered transaction list for one account and emits
// realized trades plus the residual open lots. A transaction with no usable
// trade leg is skipped and counted, never fatal.
func (m *Matcher) Match(txs []models.RawTransaction) *Result {
	res := &Result{}
	queues := make(map[string]*lotQueue)
	var order []string // queue keys in first-seen order, for stable residue output

	for _, tx := range txs {
		legs := tradeLegs(tx)
		if len(legs) == 0 {
			res.MalformedSkipped++
			logger.Info("skip malformed transaction id=%s account=%s: no trade leg", tx.ID, tx.Account)
			continue
		}
		for _, leg := range legs {
			key := leg.InstrumentKey()
			q, ok := queues[key]
			if !ok {
				q = &lotQueue{}
				queues[key] = q
				order = append(order, key)
			}
			switch leg.Effect {
			case models.EffectOpen:
				q.push(newLot(tx, leg))
			case models.EffectClose:
				m.closeAgainst(q, tx, leg, res)
			}
		}
	}

	for _, key := range order {
		res.OpenLots = append(res.OpenLots, queues[key].lots...)
	}
	return res
}

// tradeLegs filters out fee-only and zero-quantity legs.
func tradeLegs(tx models.RawTransaction) []models.TransactionLeg {
	out := make([]models.TransactionLeg, 0, len(tx.Legs))
	for _, leg := range tx.Legs {
		if leg.FeeOnly || leg.SignedQty.IsZero() {
			continue
		}
		out = append(out, leg)
	}
	return out
}

func newLot(tx models.RawTransaction, leg models.TransactionLeg) *models.OpenLot {
	dir := models.DirectionLong
	if leg.SignedQty.IsNegative() {
		dir = models.DirectionShort // sell-to-open
	}
	return &models.OpenLot{
		InstrumentKey: leg.InstrumentKey(),
		Account:       tx.Account,
		Exchange:      tx.Exchange,
		Symbol:        leg.Symbol,
		Underlying:    leg.Underlying,
		AssetClass:    leg.AssetClass,
		OptionType:    leg.OptionType,
		Strike:        leg.Strike,
		OpenDate:      tx.Timestamp,
		Price:         leg.Price,
		RemainingQty:  leg.Qty(),
		Direction:     dir,
		Fees:          leg.Fee,
	}
}

// closeAgainst walks the queue head-first, consuming min(remaining, lot) per
// iteration and emitting one trade per consumed segment. Quantity left over
// after the queue empties becomes an UnmatchedClose finding, not an error.
func (m *Matcher) closeAgainst(q *lotQueue, tx models.RawTransaction, leg models.TransactionLeg, res *Result) {
	remaining := leg.Qty()
	closeQty := leg.Qty() // denominator for exit fee pro-rating
	segment := 0

	for remaining.IsPositive() && !q.empty() {
		lot := q.head()
		consume := decimal.Min(remaining, lot.RemainingQty)

		// exit fee share is proportional to the consumed part of the leg,
		// entry fee share to the consumed part of the lot
		exitFee := leg.Fee.Mul(consume).Div(closeQty)
		entryFee := decimal.Zero
		if lot.RemainingQty.IsPositive() {
			entryFee = lot.Fees.Mul(consume).Div(lot.RemainingQty)
		}
		lot.Fees = lot.Fees.Sub(entryFee)

		fees := entryFee.Add(exitFee)
		mult := leg.Multiplier()
		pnl := grossPnl(lot.Direction, lot.Price, leg.Price, consume, mult).Sub(fees)

		oid := ""
		if tx.ID != "" {
			// one closing leg can split across lots; keep oids unique per segment
			oid = fmt.Sprintf("%s-%d", tx.ID, segment)
		}

		res.Trades = append(res.Trades, models.Trade{
			Account:    tx.Account,
			Exchange:   tx.Exchange,
			Symbol:     displaySymbol(lot),
			Underlying: lot.Underlying,
			AssetClass: lot.AssetClass,
			OptionType: lot.OptionType,
			Strike:     lot.Strike,
			Direction:  lot.Direction,
			EntryPrice: lot.Price,
			ExitPrice:  leg.Price,
			Quantity:   consume,
			EntryDate:  lot.OpenDate,
			ExitDate:   tx.Timestamp,
			Fees:       fees,
			Pnl:        pnl,
			PnlPercent: pnlPercent(pnl, lot.Price, consume, mult),
			Status:     models.TradeStatusClosed,
			ExternalOid: oid,
		})
		segment++

		lot.RemainingQty = lot.RemainingQty.Sub(consume)
		if lot.RemainingQty.IsZero() {
			q.pop()
		}
		remaining = remaining.Sub(consume)
	}

	if remaining.IsPositive() {
		logger.Info("unmatched closing qty key=%s tx=%s qty=%s", leg.InstrumentKey(), tx.ID, remaining.String())
		res.UnmatchedCloses = append(res.UnmatchedCloses, models.UnmatchedClose{
			InstrumentKey: leg.InstrumentKey(),
			TransactionID: tx.ID,
			Date:          tx.Timestamp,
			UnmatchedQty:  remaining,
			Price:         leg.Price,
		})
	}
}
