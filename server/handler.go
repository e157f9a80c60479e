package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/odit-bit/chatreply/generate"
	"github.com/odit-bit/chatreply/responder"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	tele "gopkg.in/telebot.v4"
)

const (
	bodyOK               = "OK"
	bodyError            = "Error"
	bodyMethodNotAllowed = "Method not allowed"
)

// Messenger is the Telegram side of the handler.
type Messenger interface {
	Identity() *tele.User
	Send(chatID, text string) bool
}

// Replier produces the reply text, it never fails.
type Replier interface {
	Reply(ctx context.Context, text string) generate.Result
}

// Webhook handles one Telegram update delivery per request.
type Webhook struct {
	chatID string
	bot    Messenger
	gen    Replier

	replies metric.Int64Counter
}

func NewWebhook(chatID string, bot Messenger, gen Replier) (*Webhook, error) {
	meter := otel.Meter("chatreply.server")
	replies, err := meter.Int64Counter(
		"chatreply.webhook.replies",
		metric.WithDescription("replies sent back to the chat"),
	)
	if err != nil {
		return nil, err
	}
	return &Webhook{chatID: chatID, bot: bot, gen: gen, replies: replies}, nil
}

// RestHandler registers the webhook and the health route on e.
func RestHandler(e *echo.Echo, path string, w *Webhook) {
	if e == nil || w == nil {
		panic("got nil parameter")
	}

	meter := otel.Meter("chatreply.server")
	requestCounter, err := meter.Int64Counter(
		"chatreply.http.request_total",
		metric.WithDescription("total number of HTTP request"),
	)
	if err != nil {
		panic(err)
	}

	// otel middleware
	e.Use(otelecho.Middleware("chatreply-server"))

	//custom middleware to counter request
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			requestCounter.Add(c.Request().Context(), 1)
			return err
		}
	})

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, bodyOK)
	})

	// any method, non POST is answered by the handler itself
	e.Any(path, w.HandleUpdate)
}

// HandleUpdate always answers 200 once the payload is parsed; generation and
// delivery failures are logged, never reported to Telegram.
func (w *Webhook) HandleUpdate(c echo.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("webhook panic", "error", fmt.Sprint(r))
			err = c.String(http.StatusInternalServerError, bodyError)
		}
	}()

	req := c.Request()
	if req.Method != http.MethodPost {
		return c.String(http.StatusMethodNotAllowed, bodyMethodNotAllowed)
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		slog.Error("failed read update", "error", err)
		return c.String(http.StatusInternalServerError, bodyError)
	}

	body = bytes.TrimSpace(body)
	if !json.Valid(body) || bytes.Equal(body, []byte("null")) {
		slog.Error("failed decode update", "body_len", len(body))
		return c.String(http.StatusInternalServerError, bodyError)
	}
	// arrays and scalars carry no message
	if body[0] != '{' {
		return c.String(http.StatusOK, bodyOK)
	}

	var update tele.Update
	if err := json.Unmarshal(body, &update); err != nil {
		slog.Error("failed decode update", "error", err)
		return c.String(http.StatusInternalServerError, bodyError)
	}

	msg := update.Message
	if msg == nil {
		return c.String(http.StatusOK, bodyOK)
	}

	if chatID(msg) != w.chatID {
		slog.Debug("update from other chat ignored", "chat_id", chatID(msg))
		return c.String(http.StatusOK, bodyOK)
	}

	var username string
	if me := w.bot.Identity(); me != nil {
		username = me.Username
	}

	if !responder.ShouldRespond(msg, username) {
		return c.String(http.StatusOK, bodyOK)
	}

	text := responder.Text(msg)
	if text == "" {
		return c.String(http.StatusOK, bodyOK)
	}

	ctx := req.Context()
	res := w.gen.Reply(ctx, text)

	// the filter above makes the configured chat and the message chat equal
	sent := w.bot.Send(w.chatID, res.Text)
	w.replies.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", res.Outcome.String()),
		attribute.Bool("sent", sent),
	))
	slog.Info("reply handled",
		"chat_id", w.chatID,
		"provider", res.Provider,
		"outcome", res.Outcome.String(),
		"sent", sent,
	)
	return c.String(http.StatusOK, bodyOK)
}

func chatID(msg *tele.Message) string {
	if msg.Chat == nil || msg.Chat.ID == 0 {
		return ""
	}
	return strconv.FormatInt(msg.Chat.ID, 10)
}
