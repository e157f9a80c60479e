package telegram

import (
	"encoding/json"
	"fmt"

	tele "gopkg.in/telebot.v4"
)

// SetWebhook registers url as the delivery endpoint for updates.
func (c *Client) SetWebhook(url string) error {
	if url == "" {
		return fmt.Errorf("telegram: webhook url is required")
	}
	wh := &tele.Webhook{Endpoint: &tele.WebhookEndpoint{PublicURL: url}}
	if err := c.bot.SetWebhook(wh); err != nil {
		return fmt.Errorf("telegram: set webhook: %w", err)
	}
	return nil
}

// RemoveWebhook switches the bot back to getUpdates delivery.
func (c *Client) RemoveWebhook(dropPending bool) error {
	if err := c.bot.RemoveWebhook(dropPending); err != nil {
		return fmt.Errorf("telegram: remove webhook: %w", err)
	}
	return nil
}

// Chat is a chat seen in pending updates.
type Chat struct {
	ID    int64
	Type  string
	Title string
}

// Chats lists the distinct chats of pending updates, in order of appearance.
// Telegram refuses getUpdates while a webhook is set.
func (c *Client) Chats() ([]Chat, error) {
	data, err := c.bot.Raw("getUpdates", nil)
	if err != nil {
		return nil, fmt.Errorf("telegram: get updates: %w", err)
	}

	var resp struct {
		Result []tele.Update `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("telegram: decode updates: %w", err)
	}

	seen := map[int64]bool{}
	chats := []Chat{}
	for _, u := range resp.Result {
		if u.Message == nil || u.Message.Chat == nil {
			continue
		}
		ch := u.Message.Chat
		if seen[ch.ID] {
			continue
		}
		seen[ch.ID] = true

		title := ch.Title
		if title == "" {
			title = ch.Username
		}
		chats = append(chats, Chat{ID: ch.ID, Type: string(ch.Type), Title: title})
	}
	return chats, nil
}
