package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"contentpilot/config"
	"contentpilot/pkg/common"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SendAlertField marks a log entry so AlertCore forwards it to the operator channel.
func SendAlertField() zap.Field {
	return zap.Bool(common.KeyLogHookSendAlert, true)
}

// WithAlertCore returns a logger whose flagged error entries are also
// forwarded to the operator Telegram channel.
func (l *Logger) WithAlertCore(cfg *config.Config) *Logger {
	return &Logger{l.Logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return NewAlertCore(cfg, core, zapcore.ErrorLevel)
	}))}
}

// AlertCore forwards flagged error entries to the operator Telegram channel
// on top of the wrapped core. Sending is async so logging never blocks.
type AlertCore struct {
	cfg      *config.Config
	core     zapcore.Core
	minLevel zapcore.Level
}

func NewAlertCore(cfg *config.Config, core zapcore.Core, minLevel zapcore.Level) *AlertCore {
	return &AlertCore{cfg: cfg, core: core, minLevel: minLevel}
}

func (a *AlertCore) Enabled(lvl zapcore.Level) bool {
	return a.core.Enabled(lvl)
}

func (a *AlertCore) With(fields []zapcore.Field) zapcore.Core {
	return &AlertCore{
		cfg:      a.cfg,
		core:     a.core.With(fields),
		minLevel: a.minLevel,
	}
}

func (a *AlertCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, a)
	}
	return checkedEntry
}

func (a *AlertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	shouldSend := false
	for _, f := range fields {
		if f.Key == common.KeyLogHookSendAlert && f.Type == zapcore.BoolType && f.Integer == 1 {
			shouldSend = true
			break
		}
	}
	if entry.Level >= a.minLevel && shouldSend {
		go a.sendTelegramAlert(entry, fields)
	}
	return a.core.Write(entry, fields)
}

func (a *AlertCore) Sync() error {
	return a.core.Sync()
}

func (a *AlertCore) sendTelegramAlert(entry zapcore.Entry, fields []zapcore.Field) {
	if !a.cfg.Telegram.Enabled || a.cfg.Telegram.BotToken == "" {
		return
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	fieldStr := ""
	for k, v := range enc.Fields {
		if k == common.KeyLogHookSendAlert {
			continue
		}
		fieldStr += fmt.Sprintf("• %s: %v\n", k, v)
	}

	message := fmt.Sprintf(
		"🚨 *%s Alert*\n\n*Message:* %s\n\n*Fields:*\n%s\n*Time:* %s",
		entry.Level.CapitalString(),
		entry.Message,
		fieldStr,
		entry.Time.Format("2006-01-02 15:04:05"),
	)

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", a.cfg.Telegram.BotToken)
	payload := map[string]interface{}{
		"chat_id":    a.cfg.Telegram.ChatID,
		"text":       message,
		"parse_mode": "Markdown",
	}

	jsonBody, _ := json.Marshal(payload)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return
	}
	defer resp.Body.Close()
}
