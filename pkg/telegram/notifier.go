package telegram

import (
	"context"
	"fmt"
	"time"

	"contentpilot/config"
	"contentpilot/pkg/logger"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Notifier pushes operator notifications to a Telegram channel. Sends are
// best-effort: a delivery failure is logged and never surfaced to callers.
type Notifier struct {
	cfg     *config.TelegramConfig
	log     *logger.Logger
	bot     *telebot.Bot
	limiter *rate.Limiter
}

func NewNotifier(cfg *config.TelegramConfig, log *logger.Logger) (*Notifier, error) {
	n := &Notifier{
		cfg: cfg,
		log: log,
		// Telegram allows ~30 msg/sec per bot, stay well under it.
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}

	if !cfg.Enabled || cfg.BotToken == "" {
		return n, nil
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:   cfg.BotToken,
		Offline: false,
		Poller:  &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			log.Error("Telegram bot error", logger.ErrorField(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	n.bot = bot
	return n, nil
}

// Notify sends a formatted operator message. No-op when the channel is not
// configured.
func (n *Notifier) Notify(ctx context.Context, title, message string) {
	if n.bot == nil {
		return
	}

	if err := n.limiter.Wait(ctx); err != nil {
		n.log.WarnContext(ctx, "Operator notification dropped", logger.ErrorField(err))
		return
	}

	text := fmt.Sprintf("⚠️ *%s*\n%s", title, message)
	if _, err := n.bot.Send(telebot.ChatID(n.cfg.ChatID), text, telebot.ModeMarkdown); err != nil {
		n.log.WarnContext(ctx, "Failed to send operator notification",
			logger.ErrorField(err),
			logger.StringField("title", title),
		)
	}
}
