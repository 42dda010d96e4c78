package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"solara/internal/config"
	"solara/internal/domain"
	"solara/internal/metrics"
)

// LeadNotification carries the fields included in the outbound lead summary.
type LeadNotification struct {
	Name    string
	Phone   string
	City    string
	Type    string
	Savings int
}

// TelegramService delivers lead summaries to a Telegram chat. Delivery is
// strictly best effort: every failure is logged, counted and swallowed, and
// nothing here ever propagates to the request that triggered it.
type TelegramService struct {
	cfg    *config.TelegramConfig
	client *http.Client
}

// NewTelegramService creates a new Telegram notification service
func NewTelegramService(cfg *config.TelegramConfig) *TelegramService {
	return &TelegramService{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// IsEnabled returns whether notification credentials are configured
func (s *TelegramService) IsEnabled() bool {
	return s.cfg.IsConfigured()
}

// telegramResponse is the subset of the sendMessage response we inspect.
type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// Send posts the lead summary to the configured chat. The returned error is
// for the background worker's log only; callers never act on it.
func (s *TelegramService) Send(ctx context.Context, n LeadNotification) error {
	if !s.IsEnabled() {
		log.Println("[TELEGRAM] Not configured, skipping notification")
		metrics.RecordNotification("skipped")
		return nil
	}

	log.Printf("[TELEGRAM] Sending notification for lead from %s", n.Name)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", s.cfg.APIBaseURL, s.cfg.BotToken)
	params := url.Values{}
	params.Set("chat_id", s.cfg.ChatID)
	params.Set("text", s.formatMessage(n))
	params.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		metrics.RecordNotification("failed")
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[TELEGRAM] Notification failed: %v", err)
		metrics.RecordNotification("failed")
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	var result telegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("[TELEGRAM] Response parse error: %v", err)
		metrics.RecordNotification("failed")
		return fmt.Errorf("telegram response parse error: %w", err)
	}

	if result.OK {
		log.Println("[TELEGRAM] Notification sent")
		metrics.RecordNotification("sent")
		return nil
	}

	// The API rejected the call; distinguish the categories that have known
	// operator fixes from everything else.
	switch result.ErrorCode {
	case http.StatusForbidden:
		log.Printf("[TELEGRAM] Forbidden: bot cannot message chat_id %s, use a personal chat id: %s", s.cfg.ChatID, result.Description)
		metrics.RecordNotification("unauthorized")
	case http.StatusBadRequest:
		log.Printf("[TELEGRAM] Bad request, check chat_id: %s", result.Description)
		metrics.RecordNotification("bad_request")
	default:
		log.Printf("[TELEGRAM] API error %d: %s", result.ErrorCode, result.Description)
		metrics.RecordNotification("failed")
	}
	return fmt.Errorf("telegram API error %d: %s", result.ErrorCode, result.Description)
}

// formatMessage builds the recipient-facing summary in the sales team's
// language, tagged with the site-type emoji.
func (s *TelegramService) formatMessage(n LeadNotification) string {
	city := n.City
	if city == "" {
		city = "غير محدد"
	}
	return fmt.Sprintf(`🔔 *طلب جديد من سولارا!*

%s *النوع:* %s
👤 *الاسم:* %s
📞 *الهاتف:* %s
📍 *الولاية:* %s
💰 *الوفر السنوي:* %d د.ج

---
✨ تم الإرسال من موقع SOLARA الرسمي`,
		domain.TypeEmoji(n.Type), n.Type, n.Name, n.Phone, city, n.Savings)
}
