package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"botflow/internal/auth"
	"botflow/internal/config"
	"botflow/internal/handler"
	"botflow/internal/messages"
	"botflow/internal/middleware"
	"botflow/internal/repository/postgres"
	"botflow/internal/repository/redis"
	"botflow/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	logger.Info("starting server", "environment", cfg.Environment, "table_prefix", cfg.TablePrefix)

	verifier, err := auth.NewJWTVerifier(cfg.AuthJWKSURL, logger)
	if err != nil {
		logger.Error("failed to initialize JWT verifier", "error", err)
		os.Exit(1)
	}
	defer verifier.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}

	chatbotRepo := postgres.NewChatbotRepository(repoConfig)
	questionRepo := postgres.NewQuestionRepository(repoConfig)
	formRepo := postgres.NewFormRepository(repoConfig)
	domainRepo := postgres.NewAllowedDomainRepository(repoConfig)
	submissionRepo := postgres.NewSubmissionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	msgs, err := messages.Load()
	if err != nil {
		logger.Error("failed to load conversation messages", "error", err)
		os.Exit(1)
	}

	chatbotService := service.NewChatbotService(chatbotRepo, questionRepo, formRepo, txManager, logger)
	widgetService := service.NewWidgetService(chatbotRepo, questionRepo, formRepo, submissionRepo, txManager, msgs, logger)

	chatbotHandler := handler.NewChatbotHandler(chatbotService, logger)
	widgetHandler := handler.NewWidgetHandler(widgetService, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/v1/chatbots", chatbotHandler.List)
	mux.HandleFunc("POST /api/v1/chatbots", chatbotHandler.Create)
	mux.HandleFunc("GET /api/v1/chatbots/{id}", chatbotHandler.Get)
	mux.HandleFunc("PUT /api/v1/chatbots/{id}", chatbotHandler.Update)
	mux.HandleFunc("DELETE /api/v1/chatbots/{id}", chatbotHandler.Delete)

	// Widget routes are public; the domain check stands in for auth.
	verifyDomain := middleware.VerifyWidgetDomain(chatbotRepo, domainRepo, logger)
	mux.Handle("GET /api/v1/widget/chatbots/{id}", verifyDomain(http.HandlerFunc(widgetHandler.GetChatbot)))
	mux.Handle("POST /api/v1/widget/chatbots/{id}/respond", verifyDomain(http.HandlerFunc(widgetHandler.Respond)))
	mux.Handle("POST /api/v1/widget/chatbots/{id}/form-submissions", verifyDomain(http.HandlerFunc(widgetHandler.SubmitForm)))

	// The WhatsApp channel needs both Redis for conversation state and a
	// configured webhook token. Without them the routes stay unregistered.
	if cfg.RedisURL != "" && cfg.WhatsAppVerifyToken != "" {
		conversationStore, err := redis.NewConversationStore(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer conversationStore.Close()

		sender := &service.LogSender{Logger: logger}
		conversationService := service.NewConversationService(chatbotRepo, questionRepo, conversationStore, sender, msgs, logger)
		whatsappHandler := handler.NewWhatsAppHandler(conversationService, cfg.WhatsAppVerifyToken, logger)

		mux.HandleFunc("GET /api/v1/whatsapp/webhook", whatsappHandler.Verify)
		mux.HandleFunc("POST /api/v1/whatsapp/webhook", whatsappHandler.Receive)
		logger.Info("whatsapp channel enabled")
	}

	authMiddleware := middleware.AuthMiddleware(verifier,
		"/health",
		"/api/v1/widget/",
		"/api/v1/whatsapp/",
	)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Widget-Domain"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsMiddleware.Handler(middleware.Recovery(logger)(authMiddleware(mux))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
