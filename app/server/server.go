// Package server exposes the moderation pipeline over HTTP. It is a
// thin adapter: all decisions and state live in the services.
package server

import (
	"context"
	"convoease/app/config"
	"convoease/app/service/moderation"
	"convoease/app/service/panel"
	"convoease/app/service/rules"
	"convoease/app/service/session"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

const shutdownTimeout = 5 * time.Second

var _ do.Shutdownable = (*Service)(nil)

type Service struct {
	cfg *config.Config
	app *fiber.App

	moderationSvc *moderation.Service
	sessionSvc    *session.Service
	rulesSvc      *rules.Service
	panelSvc      *panel.Service
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:           do.MustInvoke[*config.Config](di),
		moderationSvc: do.MustInvoke[*moderation.Service](di),
		sessionSvc:    do.MustInvoke[*session.Service](di),
		rulesSvc:      do.MustInvoke[*rules.Service](di),
		panelSvc:      do.MustInvoke[*panel.Service](di),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s.registerRoutes()

	return s, nil
}

func (s *Service) registerRoutes() {
	api := s.app.Group("/api")

	api.Post("/messages", s.handlePostMessage)
	api.Get("/transcript", s.handleGetTranscript)
	api.Get("/flagged", s.handleGetFlagged)
	api.Get("/stats", s.handleGetStats)

	api.Get("/rules", s.handleGetRules)
	api.Put("/rules", s.handlePutRules)
	api.Get("/rules/templates", s.handleGetRuleTemplates)
	api.Post("/rules/draft", s.handleDraftRules)

	api.Post("/panel", s.handlePanel)
	api.Post("/clear", s.handleClear)
}

func (s *Service) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()

		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Error("HTTP server shutdown failed", "error", err)
		}
	}()

	slog.Info("HTTP server listening", "addr", s.cfg.Server.Addr)

	if err := s.app.Listen(s.cfg.Server.Addr); err != nil {
		slog.Error("HTTP server stopped", "error", err)
	}
}

func (s *Service) Shutdown() error {
	return s.app.ShutdownWithTimeout(shutdownTimeout)
}
