package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"trade_recon/internal/models"
	"trade_recon/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

// GetTransactions fetches the account's transaction history page by page and
// returns it ordered by timestamp. A transaction that fails to convert is
// logged and dropped; it never aborts the fetch.
func (c *Client) GetTransactions(
	ctx context.Context,
	account string,
	from, to time.Time,
) ([]models.RawTransaction, error) {
	var out []models.RawTransaction

	for page := 1; ; page++ {
		resp, err := c.getPage(ctx, account, from, to, page)
		if err != nil {
			return nil, fmt.Errorf("GetTransactions page %d: %w", page, err)
		}
		for _, dto := range resp.Transactions {
			tx, err := convertTransaction(account, dto)
			if err != nil {
				logger.Error("drop transaction id=%s account=%s: %v", dto.ID, account, err)
				continue
			}
			out = append(out, tx)
		}
		if resp.TotalPages == 0 || page >= resp.TotalPages {
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (c *Client) getPage(
	ctx context.Context,
	account string,
	from, to time.Time,
	page int,
) (*transactionsResponse, error) {
	q := url.Values{}
	q.Set("account", account)
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))
	q.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/v1/transactions?"+q.Encode(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var payload transactionsResponse
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &payload, nil
}

func convertTransaction(account string, dto transactionDTO) (models.RawTransaction, error) {
	ts, err := time.Parse(time.RFC3339, dto.Date)
	if err != nil {
		return models.RawTransaction{}, fmt.Errorf("parse date %q: %w", dto.Date, err)
	}

	tx := models.RawTransaction{
		ID:        dto.ID,
		Account:   account,
		Exchange:  dto.Exchange,
		Timestamp: ts,
		Legs:      make([]models.TransactionLeg, 0, len(dto.Legs)),
	}
	for _, l := range dto.Legs {
		leg, err := convertLeg(l)
		if err != nil {
			return models.RawTransaction{}, fmt.Errorf("leg %s: %w", l.Symbol, err)
		}
		tx.Legs = append(tx.Legs, leg)
	}
	return tx, nil
}

func convertLeg(dto legDTO) (models.TransactionLeg, error) {
	leg := models.TransactionLeg{
		Symbol:     dto.Symbol,
		Underlying: dto.Underlying,
		OptionType: dto.OptionType,
		FeeOnly:    dto.FeeType != "",
	}

	switch dto.AssetClass {
	case "option":
		leg.AssetClass = models.AssetOption
	case "equity":
		leg.AssetClass = models.AssetEquity
	default:
		return leg, fmt.Errorf("unknown asset class %q", dto.AssetClass)
	}

	switch dto.Effect {
	case "open":
		leg.Effect = models.EffectOpen
	case "close":
		leg.Effect = models.EffectClose
	case "":
		// fee-only payloads carry no effect
		if !leg.FeeOnly {
			return leg, fmt.Errorf("missing effect")
		}
	default:
		return leg, fmt.Errorf("unknown effect %q", dto.Effect)
	}

	var err error
	if leg.SignedQty, err = parseDec(dto.Quantity); err != nil {
		return leg, fmt.Errorf("quantity: %w", err)
	}
	if leg.Price, err = parseDec(dto.Price); err != nil {
		return leg, fmt.Errorf("price: %w", err)
	}
	if leg.Fee, err = parseDec(dto.Fee); err != nil {
		return leg, fmt.Errorf("fee: %w", err)
	}
	if dto.Strike != "" {
		if leg.Strike, err = decimal.NewFromString(dto.Strike); err != nil {
			return leg, fmt.Errorf("strike: %w", err)
		}
	}
	if dto.Expiry != "" {
		if leg.Expiry, err = time.Parse("2006-01-02", dto.Expiry); err != nil {
			return leg, fmt.Errorf("expiry: %w", err)
		}
	}
	return leg, nil
}

func parseDec(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
