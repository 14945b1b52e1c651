package pg

import (
	"context"
	"fmt"
	"time"

	"trade_recon/internal/models"
	ingest "trade_recon/internal/modules/ingest/service"
	"trade_recon/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

const (
	insertTradeSQL = `
		INSERT INTO trades (id, account, exchange, symbol, external_oid, fingerprint, exit_date, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT DO NOTHING`

	identitySetSQL = `
		SELECT exchange, external_oid, fingerprint
		FROM trades
		WHERE account = $1`

	listTradesSQL = `
		SELECT payload
		FROM trades
		WHERE account = $1 AND exit_date >= $2 AND exit_date <= $3
		ORDER BY exit_date`

	deleteByIDsSQL = `DELETE FROM trades WHERE id = ANY($1)`
)

// Trades is the pgx-backed TradeStore: one row per realized trade, with the
// identity columns broken out for the conflict indexes and the full trade
// kept as a jsonb payload.
type Trades struct {
	db *db.PgTxManager
}

// NewTrades wraps the tx manager in a trade store.
func NewTrades(manager *db.PgTxManager) *Trades {
	return &Trades{
		db: manager,
	}
}

// InsertTrades writes the batch in one tx; conflicts on the identity indexes
// are silent no-ops. Returns the number of rows actually written.
func (t *Trades) InsertTrades(ctx context.Context, trades []models.Trade) (inserted int, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.InsertTrades: %w", err)
		}
	}()

	err = t.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			for _, trade := range trades {
				var data []byte
				data, err = sonic.Marshal(trade)
				if err != nil {
					return err
				}
				tag, err := tx.Exec(ctxTx, insertTradeSQL,
					trade.ID,
					trade.Account,
					trade.Exchange,
					trade.Symbol,
					trade.ExternalOid,
					ingest.Fingerprint(trade),
					trade.ExitDate,
					data,
				)
				if err != nil {
					return err
				}
				inserted += int(tag.RowsAffected())
			}
			return nil
		})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// IdentitySet loads the persisted identity keys for an account. Rows with a
// broker oid publish only the oid key; their fingerprint is not an identity
// and must not shadow a later oid-less candidate.
func (t *Trades) IdentitySet(ctx context.Context, account string) (set map[string]struct{}, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.IdentitySet: %w", err)
		}
	}()

	rows, err := t.db.Conn().Query(ctx, identitySetSQL, account)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set = make(map[string]struct{})
	for rows.Next() {
		var exchange, oid, fp string
		if err = rows.Scan(&exchange, &oid, &fp); err != nil {
			return nil, err
		}
		if oid != "" {
			set["oid:"+exchange+"|"+oid] = struct{}{}
		} else {
			set["fp:"+fp] = struct{}{}
		}
	}
	return set, rows.Err()
}

// ListTrades returns the account's trades in exit-date order.
func (t *Trades) ListTrades(ctx context.Context, account string, from, to time.Time) (trades []models.Trade, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.ListTrades: %w", err)
		}
	}()

	rows, err := t.db.Conn().Query(ctx, listTradesSQL, account, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data []byte
		if err = rows.Scan(&data); err != nil {
			return nil, err
		}
		var trade models.Trade
		if err = sonic.Unmarshal(data, &trade); err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}

// DeleteByIDs removes one chunk of rows. Unknown ids just do not match.
func (t *Trades) DeleteByIDs(ctx context.Context, ids []string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.DeleteByIDs: %w", err)
		}
	}()

	_, err = t.db.Conn().Exec(ctx, deleteByIDsSQL, ids)
	return err
}
