package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solara/internal/config"
	"solara/internal/domain"
)

func testNotification() LeadNotification {
	return LeadNotification{
		Name:    "Ali",
		Phone:   "0551234567",
		City:    "Algiers",
		Type:    domain.TypeResidential,
		Savings: 20400,
	}
}

func TestTelegramSkipsWhenUnconfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.TelegramConfig
	}{
		{"empty token", config.TelegramConfig{ChatID: "12345"}},
		{"empty chat id", config.TelegramConfig{BotToken: "123:abc"}},
		{"placeholder token", config.TelegramConfig{BotToken: "YOUR_BOT_TOKEN_HERE", ChatID: "12345"}},
		{"placeholder chat id", config.TelegramConfig{BotToken: "123:abc", ChatID: "YOUR_PERSONAL_CHAT_ID_HERE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTelegramService(&tt.cfg)
			assert.False(t, svc.IsEnabled())
			// Skipping is not an error.
			assert.NoError(t, svc.Send(context.Background(), testNotification()))
		})
	}
}

func TestTelegramSendSuccess(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"ok":true}`))
	}))
	defer api.Close()

	svc := NewTelegramService(&config.TelegramConfig{
		BotToken:   "123:abc",
		ChatID:     "42",
		APIBaseURL: api.URL,
	})

	require.NoError(t, svc.Send(context.Background(), testNotification()))

	assert.Equal(t, "/bot123:abc/sendMessage", gotPath)
	assert.Equal(t, "42", gotQuery["chat_id"][0])
	assert.Equal(t, "Markdown", gotQuery["parse_mode"][0])
	assert.Contains(t, gotQuery["text"][0], "Ali")
	assert.Contains(t, gotQuery["text"][0], "🏠")
	assert.Contains(t, gotQuery["text"][0], "0551234567")
}

func TestTelegramEmojiFollowsLeadType(t *testing.T) {
	svc := NewTelegramService(&config.TelegramConfig{})

	assert.Contains(t, svc.formatMessage(LeadNotification{Type: domain.TypeCommercial}), "🏢")
	assert.Contains(t, svc.formatMessage(LeadNotification{Type: domain.TypeIndustrial}), "🏭")
	assert.Contains(t, svc.formatMessage(LeadNotification{Type: domain.TypeResidential}), "🏠")
}

func TestTelegramAPIErrorsAreCategorized(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"forbidden", `{"ok":false,"error_code":403,"description":"Forbidden: bots can't send messages to bots"}`},
		{"bad request", `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`},
		{"unknown", `{"ok":false,"error_code":500,"description":"Internal"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer api.Close()

			svc := NewTelegramService(&config.TelegramConfig{
				BotToken:   "123:abc",
				ChatID:     "42",
				APIBaseURL: api.URL,
			})

			// Rejections surface as errors to the background worker's log
			// but carry the category in the message.
			err := svc.Send(context.Background(), testNotification())
			assert.Error(t, err)
		})
	}
}

func TestTelegramTransportFailure(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	api.Close() // unreachable

	svc := NewTelegramService(&config.TelegramConfig{
		BotToken:   "123:abc",
		ChatID:     "42",
		APIBaseURL: api.URL,
	})

	err := svc.Send(context.Background(), testNotification())
	assert.Error(t, err)
}
