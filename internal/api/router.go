package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/philsmcc/groupdeedov2/internal/api/handlers/http/chat"
	"github.com/philsmcc/groupdeedov2/internal/api/handlers/http/system"
	"github.com/philsmcc/groupdeedov2/internal/api/handlers/ws"
	"github.com/philsmcc/groupdeedov2/internal/config"
	"github.com/philsmcc/groupdeedov2/internal/middleware"
	"github.com/philsmcc/groupdeedov2/internal/presence"
	"github.com/philsmcc/groupdeedov2/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service, registry *presence.Registry, db system.Pinger) *Server {
	chatHandler := chat.NewHandler(logger, svc.Chat, svc.Preferences)
	systemHandler := system.NewHandler(logger, db)
	wsHandler := ws.NewHandler(logger, registry, cfg.Chat.SendBuffer, cfg.Chat.DefaultRadiusMiles, cfg.Chat.DefaultChannel)

	r := InitRouter(cfg, chatHandler, systemHandler, wsHandler, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(cfg *config.Config, chatHandler *chat.Handler, systemHandler *system.Handler, wsHandler *ws.Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/messages", func(mr chi.Router) {
			mr.Use(middleware.Limit(10, 20, 5*time.Minute, logger))
			mr.Post("/", chatHandler.ChatMessagePost)
			mr.Post("/nearby", chatHandler.ChatMessagesNearby)
		})

		api.Route("/settings", func(sr chi.Router) {
			sr.Use(middleware.Session(cfg.Session.CookieName, cfg.Session.MaxAge))
			sr.Get("/", chatHandler.SettingsGet)
			sr.Put("/", chatHandler.SettingsPut)
		})

		api.Get("/ws", wsHandler.Serve)

		api.Get("/health", systemHandler.SystemHealth)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("🚀 Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("🛑 Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
