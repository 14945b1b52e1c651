package service

import (
	"trade_recon/internal/models"
)

// lotQueue is the FIFO queue of open lots for one instrument key.
// Head is the oldest lot; closing legs always consume from the head.
type lotQueue struct {
	lots []*models.OpenLot
}

func (q *lotQueue) push(l *models.OpenLot) {
	q.lots = append(q.lots, l)
}

func (q *lotQueue) head() *models.OpenLot {
	if len(q.lots) == 0 {
		return nil
	}
	return q.lots[0]
}

func (q *lotQueue) pop() {
	if len(q.lots) > 0 {
		q.lots = q.lots[1:]
	}
}

func (q *lotQueue) empty() bool {
	return len(q.lots) == 0
}
