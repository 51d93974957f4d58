package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"alphadesk/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const keySendAlert = "send_alert"

// AlertCore forwards flagged error entries to an ops webhook in addition to
// writing them through the wrapped core.
type AlertCore struct {
	cfg      config.AlertWebhook
	core     zapcore.Core
	minLevel zapcore.Level
}

// WithAlertWebhook wraps the logger so that ErrorContextWithAlert entries are
// pushed to the configured webhook. A logger without a webhook URL is returned
// unchanged.
func (l *Logger) WithAlertWebhook(cfg config.AlertWebhook) *Logger {
	if cfg.URL == "" {
		return l
	}
	wrapped := l.Logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &AlertCore{cfg: cfg, core: core, minLevel: zapcore.ErrorLevel}
	}))
	return &Logger{wrapped}
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
		return a.core.Check(entry, checkedEntry).AddCore(entry, a)
	}
	return checkedEntry
}

func (a *AlertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	shouldSend := false
	for _, f := range fields {
		if f.Key == keySendAlert && f.Type == zapcore.BoolType && f.Integer == 1 {
			shouldSend = true
			break
		}
	}
	if entry.Level >= a.minLevel && shouldSend {
		go a.sendWebhookAlert(entry, fields) // async, must not block the caller
	}
	return a.core.Write(entry, fields)
}

func (a *AlertCore) Sync() error {
	return a.core.Sync()
}

func (a *AlertCore) sendWebhookAlert(entry zapcore.Entry, fields []zapcore.Field) {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	delete(enc.Fields, keySendAlert)

	payload := map[string]interface{}{
		"level":     entry.Level.CapitalString(),
		"message":   entry.Message,
		"fields":    enc.Fields,
		"timestamp": entry.Time.Format("2006-01-02 15:04:05"),
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return
	}

	client := &http.Client{Timeout: a.cfg.Timeout}
	if client.Timeout == 0 {
		client.Timeout = 5 * time.Second
	}
	resp, err := client.Post(a.cfg.URL, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		fmt.Printf("failed to send alert webhook: %v\n", err)
		return
	}
	resp.Body.Close()
}
