package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/claim-gateway/internal/analysis"
	"github.com/tbourn/claim-gateway/internal/config"
	"github.com/tbourn/claim-gateway/internal/extract"
	httpapi "github.com/tbourn/claim-gateway/internal/http"
	"github.com/tbourn/claim-gateway/internal/notify"
	"github.com/tbourn/claim-gateway/internal/observability"
	"github.com/tbourn/claim-gateway/internal/services"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, db)
		},
	}
}

// newGateway builds the service with the real upstream clients.
func newGateway(cfg config.Config, db *gorm.DB) *services.GatewayService {
	analyzer, _ := services.ParseTelegramAnalyzer(cfg.Telegram.Analyzer)
	return &services.GatewayService{
		DB: db,
		Responder: analysis.NewResponder(analysis.ResponderConfig{
			APIKey:  cfg.Responder.APIKey,
			Model:   cfg.Responder.Model,
			BaseURL: cfg.Responder.BaseURL,
			Timeout: cfg.Responder.Timeout,
		}),
		Verifier: analysis.NewVerifier(analysis.VerifierConfig{
			BaseURL: cfg.Verifier.BaseURL,
			Timeout: cfg.Verifier.Timeout,
		}),
		Extractor: extract.Default{},
		Notifier: notify.New(notify.TelegramConfig{
			Token:   cfg.Telegram.BotToken,
			APIBase: cfg.Telegram.APIBase,
			Timeout: cfg.Telegram.Timeout,
		}),
		TelegramAnalyzer: analyzer,
	}
}

func serve(ctx context.Context, cfg config.Config, db *gorm.DB) error {
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version, observability.GatewayAttributes(cfg)...)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, newGateway(cfg, db), cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("base_path", cfg.APIBasePath).
			Str("db", cfg.DBPath).
			Str("telegram_analyzer", cfg.Telegram.Analyzer).
			Bool("telegram_outbound", cfg.Telegram.BotToken != "").
			Str("version", version).
			Msg("gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
