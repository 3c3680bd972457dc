// Package telegram implements the support-bot side of the service: the Bot
// API client, the Arabic message templates and the conversational command
// interpreter that drives the ticket engine.
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Config holds the bot credentials and admin channel identity.
type Config struct {
	BotToken      string
	AdminChatID   string // chat id allowed to run restricted commands
	WebhookSecret string // optional secret token for webhook verification
}

// BotService provides Telegram Bot API operations
type BotService struct {
	config     Config
	httpClient *http.Client
	baseURL    string
}

// NewBotService creates a new Telegram bot service
func NewBotService(config Config) *BotService {
	return &BotService{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: fmt.Sprintf("https://api.telegram.org/bot%s", config.BotToken),
	}
}

// AdminChatID returns the configured administrator chat id.
func (s *BotService) AdminChatID() string {
	return s.config.AdminChatID
}

// WebhookSecret returns the configured webhook secret token.
func (s *BotService) WebhookSecret() string {
	return s.config.WebhookSecret
}

// SendMessage sends an HTML-formatted message to a chat. Chat ids are kept
// as strings end to end; the Bot API accepts both forms.
func (s *BotService) SendMessage(chatID string, text string) error {
	url := fmt.Sprintf("%s/sendMessage", s.baseURL)
	body := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	return s.makeRequest(url, body)
}

// NotifyAdmins sends a message to the administrator chat.
func (s *BotService) NotifyAdmins(text string) error {
	if s.config.AdminChatID == "" {
		return fmt.Errorf("admin chat id not configured")
	}
	return s.SendMessage(s.config.AdminChatID, text)
}

// SetWebhook sets the webhook URL for receiving updates
func (s *BotService) SetWebhook(webhookURL string) error {
	url := fmt.Sprintf("%s/setWebhook", s.baseURL)
	body := map[string]any{
		"url": webhookURL,
	}
	if s.config.WebhookSecret != "" {
		body["secret_token"] = s.config.WebhookSecret
	}
	return s.makeRequest(url, body)
}

// DeleteWebhook removes the webhook
func (s *BotService) DeleteWebhook() error {
	url := fmt.Sprintf("%s/deleteWebhook", s.baseURL)
	return s.makeRequest(url, nil)
}

// apiResponse represents a Telegram API response
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

func (s *BotService) makeRequest(url string, body map[string]any) error {
	var req *http.Request
	var err error

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		req, err = http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBody))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(http.MethodPost, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}

// Update represents a Telegram update delivered to the webhook
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message represents a Telegram message
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      *Chat  `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
}

// User represents a Telegram user
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat represents a Telegram chat
type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Title    string `json:"title,omitempty"`
}
