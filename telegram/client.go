// Package telegram is a thin Bot API client built on telebot. The bot is
// created offline and never polls; every call is a single request.
package telegram

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

const DefaultAPIURL = tele.DefaultApiURL

type Config struct {
	Token   string
	APIURL  string
	Timeout time.Duration
}

type Client struct {
	bot *tele.Bot

	hc       *http.Client
	getMeURL string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	bot, err := tele.NewBot(tele.Settings{
		URL:     cfg.APIURL,
		Token:   cfg.Token,
		Client:  hc,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}
	return &Client{
		bot:      bot,
		hc:       hc,
		getMeURL: strings.TrimSuffix(cfg.APIURL, "/") + "/bot" + cfg.Token + "/getMe",
	}, nil
}

type userResponse struct {
	Ok     bool       `json:"ok"`
	Result *tele.User `json:"result"`
}

// Identity fetches the bot account with GET getMe, Raw only posts. It returns
// nil on any failure.
func (c *Client) Identity() *tele.User {
	resp, err := c.hc.Get(c.getMeURL)
	if err != nil {
		// the url carries the token
		slog.Warn("telegram getMe failed", "error", errors.Unwrap(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("telegram getMe failed", "status", resp.StatusCode)
		return nil
	}

	var me userResponse
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		slog.Warn("telegram getMe malformed", "error", err)
		return nil
	}
	if !me.Ok || me.Result == nil {
		slog.Warn("telegram getMe not ok")
		return nil
	}
	return me.Result
}

// Send posts text to chatID and reports whether Telegram accepted it.
func (c *Client) Send(chatID, text string) bool {
	if _, err := c.bot.Send(recipient(chatID), text); err != nil {
		slog.Error("telegram sendMessage failed", "chat_id", chatID, "error", err)
		return false
	}
	return true
}

// recipient lets string chat ids (numeric or @channel) be used as targets.
type recipient string

func (r recipient) Recipient() string { return string(r) }
