// Package server exposes the Telegram webhook over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/odit-bit/chatreply/config"
	"github.com/odit-bit/chatreply/generate"
	"github.com/odit-bit/chatreply/observability"
	"github.com/odit-bit/chatreply/persona"
	"github.com/odit-bit/chatreply/telegram"
)

const serviceName = "chatreply-server"

type Server struct {
	e   *echo.Echo
	cfg config.Config
	tel *observability.Telemetry
}

// New builds the webhook server from cfg. Observability is initialized first
// so the instruments created below report to the configured exporter.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	tel, err := observability.Init(ctx, serviceName, cfg.Observe)
	if err != nil {
		return nil, fmt.Errorf("failed init observability: %w", err)
	}

	e, err := build(cfg, tel)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}
	return &Server{e: e, cfg: cfg, tel: tel}, nil
}

func build(cfg config.Config, tel *observability.Telemetry) (*echo.Echo, error) {
	if cfg.Bot.Token == "" {
		slog.Warn("bot token is empty, telegram calls will fail")
	}
	if !persona.Known(cfg.Persona) {
		slog.Warn("unknown persona, using default", "persona", cfg.Persona)
	}

	bot, err := telegram.NewClient(telegram.Config{
		Token:   cfg.Bot.Token,
		APIURL:  cfg.Bot.APIURL,
		Timeout: cfg.Bot.Timeout,
	})
	if err != nil {
		return nil, err
	}

	gen, err := NewGenerator(cfg)
	if err != nil {
		return nil, err
	}

	wh, err := NewWebhook(cfg.Bot.ChatID, bot, gen)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	RestHandler(e, cfg.Server.Path, wh)
	if tel.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(tel.MetricsHandler))
	}
	return e, nil
}

// NewGenerator builds the provider chain described by cfg.
func NewGenerator(cfg config.Config) (*generate.Generator, error) {
	client := generate.NewClient(
		&http.Client{Timeout: cfg.Generate.Timeout},
		cfg.GenerateOptions(),
	)
	return generate.New(client, cfg.Persona, persona.GroupContext, cfg.Providers()...)
}

// Run serves until ctx is done, then shuts down the server and the
// observability providers.
func (s *Server) Run(ctx context.Context) error {
	errC := make(chan error, 1)
	go func() {
		slog.Info("webhook server listening", "address", s.cfg.Server.Address, "path", s.cfg.Server.Path)
		errC <- s.e.Start(s.cfg.Server.Address)
	}()

	var err error
	select {
	case xerr := <-errC:
		if !errors.Is(xerr, http.ErrServerClosed) {
			err = xerr
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("shutdown http server...")
	if xerr := s.e.Shutdown(shutdownCtx); xerr != nil {
		err = errors.Join(err, xerr)
	}
	if xerr := s.tel.Shutdown(shutdownCtx); xerr != nil {
		err = errors.Join(err, xerr)
	}
	return err
}
