package notify

import (
	"fmt"
	"log"
	"strings"

	"trade_recon/internal/models"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
	Report(rep *models.SyncReport)
}

// Telegram posts sync summaries to one chat. Passive: no commands, no polling.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
	}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

func (t *Telegram) Report(rep *models.SyncReport) { t.Send(FormatReport(rep)) }

// FormatReport renders one account's sync result, findings included, for a
// human doing manual reconciliation.
func FormatReport(rep *models.SyncReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sync %s\n", rep.Account)
	fmt.Fprintf(&b, "fetched=%d matched=%d inserted=%d dup=%d malformed=%d open_lots=%d\n",
		rep.TransactionsFetched, rep.TradesMatched, rep.TradesInserted,
		rep.DuplicatesFiltered, rep.MalformedSkipped, rep.OpenLotsRemaining)
	fmt.Fprintf(&b, "option groups=%d free=%d not_scaled_out=%d\n",
		rep.PositionGroups, rep.FreePositions, rep.NotScaledOut)
	if len(rep.UnmatchedCloses) > 0 {
		b.WriteString("unmatched closes (missing earlier opens?):\n")
		for _, u := range rep.UnmatchedCloses {
			fmt.Fprintf(&b, "- %s tx=%s qty=%s @ %s\n",
				u.InstrumentKey, u.TransactionID, u.UnmatchedQty.String(), u.Price.String())
		}
	}
	return b.String()
}

// Stdout logs everything, for runs without a Telegram token.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { log.Println(msg) }
func (s *Stdout) Sendf(format string, args ...any) { log.Printf(format, args...) }
func (s *Stdout) Report(rep *models.SyncReport)    { log.Println(FormatReport(rep)) }
