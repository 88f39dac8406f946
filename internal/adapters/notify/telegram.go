package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alejandrodnm/surebet/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Intervalo mínimo entre mensajes al mismo chat (~30/min antes del 429).
const telegramSendInterval = 2 * time.Second

// sender es la parte de *tgbotapi.BotAPI que usamos.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram implementa ports.Notifier enviando un mensaje por arbitraje.
type Telegram struct {
	bot     sender
	chatID  int64
	limiter *rate.Limiter
}

// NewTelegram crea el notificador y valida el token con getMe.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify.NewTelegram: %w", err)
	}
	bot.Debug = false
	slog.Info("telegram notifier initialized", "bot", bot.Self.UserName, "chat_id", chatID)
	return newTelegram(bot, chatID, telegramSendInterval), nil
}

func newTelegram(bot sender, chatID int64, interval time.Duration) *Telegram {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Telegram{bot: bot, chatID: chatID, limiter: rate.NewLimiter(limit, 1)}
}

// Notify implementa ports.Notifier. Los eventos sin arbitraje se ignoran.
func (t *Telegram) Notify(ctx context.Context, opportunities []domain.Opportunity) error {
	var errs []error
	sent := 0
	for _, opp := range opportunities {
		if !opp.IsArbitrage() {
			continue
		}
		if err := t.limiter.Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telegram: rate limiter: %w", err))
			break
		}
		msg := tgbotapi.NewMessage(t.chatID, formatArbitrageMessage(opp))
		msg.DisableWebPagePreview = true
		if _, err := t.bot.Send(msg); err != nil {
			errs = append(errs, fmt.Errorf("telegram: send %s: %w", opp.Event.ID, err))
			continue
		}
		sent++
	}
	if sent > 0 {
		slog.Debug("telegram alerts sent", "count", sent)
	}
	return errors.Join(errs...)
}

// formatArbitrageMessage construye el texto plano de la alerta.
func formatArbitrageMessage(opp domain.Opportunity) string {
	r := opp.Result
	var b strings.Builder
	fmt.Fprintf(&b, "ARBITRAGE %.2f%%\n%s\n", r.Margin*100, opp.Event.Name())
	if !opp.Event.CommenceTime.IsZero() {
		fmt.Fprintf(&b, "Starts: %s\n", opp.Event.CommenceTime.UTC().Format("2006-01-02 15:04 UTC"))
	}
	b.WriteString("\n")
	for i, out := range opp.Best.Outcomes {
		fmt.Fprintf(&b, "%s: %s @ %.2f → stake $%.2f\n",
			out.String(), opp.Best.Bookmakers[i], opp.Best.Odds[i], r.Stakes[i])
	}
	fmt.Fprintf(&b, "\nTotal $%.2f → payout $%.2f, profit $%.2f (ROI %.2f%%)",
		r.TotalStake(), r.Payout, r.Profit, r.ROI()*100)
	return b.String()
}
