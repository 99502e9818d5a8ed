package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/financasgo/backend/internal/config"
	"github.com/financasgo/backend/internal/handler"
	"github.com/financasgo/backend/internal/logging"
	"github.com/financasgo/backend/internal/repository"
	"github.com/financasgo/backend/internal/service"
	"github.com/financasgo/backend/pkg/auth"
	"github.com/financasgo/backend/pkg/mercadopago"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	plans, err := config.LoadPlans(cfg.PlansFile)
	if err != nil {
		logging.Fatal("load plan catalog failed", "error", err)
	}

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("database connect failed", "error", err)
	}
	defer pool.Close()

	// Redis is optional; without it simulations are computed every time and
	// webhook deduplication is skipped.
	var cache repository.Cache
	if cfg.RedisAddr != "" {
		rc := repository.NewRedisCache(cfg.RedisAddr)
		if err := rc.Ping(context.Background()); err != nil {
			slog.Warn("redis unreachable, running without cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			cache = rc
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	accountRepo := repository.NewPgAccountRepository(pool)
	categoryRepo := repository.NewPgCategoryRepository(pool)
	transactionRepo := repository.NewPgTransactionRepository(pool)
	cardRepo := repository.NewPgCardRepository(pool)
	subscriptionRepo := repository.NewPgSubscriptionRepository(pool)

	mpClient := mercadopago.NewClient(cfg.MPAccessToken, cfg.MPWebhookSecret)

	authService := service.NewAuthService(userRepo)
	accountService := service.NewAccountService(accountRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	transactionService := service.NewTransactionService(transactionRepo, accountRepo)
	cardService := service.NewCardService(cardRepo, transactionRepo)
	simulationService := service.NewSimulationService(cache)
	subscriptionService := service.NewSubscriptionService(mpClient, subscriptionRepo, userRepo, cache, plans, cfg.FrontendURL)
	statsService := service.NewStatsService(accountRepo, transactionRepo)

	sessionSecret := auth.SessionSecretBytes(cfg.SessionSecret)
	secureCookies := os.Getenv("SECURE_COOKIES") == "true"

	h := handler.New(pool, cfg.FrontendURL)
	authHandler := handler.NewAuthHandler(authService, sessionSecret, secureCookies)
	meHandler := handler.NewMeHandler(userRepo)
	accountHandler := handler.NewAccountHandler(accountService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	cardHandler := handler.NewCardHandler(cardService)
	simulationHandler := handler.NewSimulationHandler(simulationService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	webhookHandler := handler.NewWebhookHandler(subscriptionService)
	dashboardHandler := handler.NewDashboardHandler(statsService)

	wrapAuth := func(next http.Handler) http.Handler {
		if cfg.AuthRequired {
			return auth.RequireAuth(sessionSecret)(next)
		}
		return auth.DevAuth(next)
	}
	gated := handler.RequireAccess(userRepo)
	wrapGated := func(next http.Handler) http.Handler {
		return wrapAuth(gated(next))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/auth/signup", authHandler.SignUp)
	mux.HandleFunc("POST /api/auth/login", authHandler.LogIn)
	mux.HandleFunc("POST /api/auth/logout", authHandler.LogOut)
	mux.Handle("GET /api/me", wrapAuth(http.HandlerFunc(meHandler.Me)))

	// Simulation API (public, stateless calculations)
	mux.HandleFunc("POST /api/simulations/investment", simulationHandler.Investment)
	mux.HandleFunc("POST /api/simulations/financing", simulationHandler.Financing)
	mux.HandleFunc("POST /api/simulations/retirement", simulationHandler.Retirement)
	mux.HandleFunc("POST /api/simulations/goal", simulationHandler.Goal)

	// Dashboard API (auth + active trial or subscription required)
	mux.Handle("GET /api/accounts", wrapGated(http.HandlerFunc(accountHandler.List)))
	mux.Handle("POST /api/accounts", wrapGated(http.HandlerFunc(accountHandler.Create)))
	mux.Handle("PUT /api/accounts/{id}", wrapGated(http.HandlerFunc(accountHandler.Update)))
	mux.Handle("DELETE /api/accounts/{id}", wrapGated(http.HandlerFunc(accountHandler.Delete)))

	mux.Handle("GET /api/categories", wrapGated(http.HandlerFunc(categoryHandler.List)))
	mux.Handle("POST /api/categories", wrapGated(http.HandlerFunc(categoryHandler.Create)))
	mux.Handle("PUT /api/categories/{id}", wrapGated(http.HandlerFunc(categoryHandler.Update)))
	mux.Handle("DELETE /api/categories/{id}", wrapGated(http.HandlerFunc(categoryHandler.Delete)))

	mux.Handle("GET /api/transactions", wrapGated(http.HandlerFunc(transactionHandler.List)))
	mux.Handle("POST /api/transactions", wrapGated(http.HandlerFunc(transactionHandler.Create)))
	mux.Handle("PUT /api/transactions/{id}", wrapGated(http.HandlerFunc(transactionHandler.Update)))
	mux.Handle("DELETE /api/transactions/{id}", wrapGated(http.HandlerFunc(transactionHandler.Delete)))

	mux.Handle("GET /api/cards", wrapGated(http.HandlerFunc(cardHandler.List)))
	mux.Handle("POST /api/cards", wrapGated(http.HandlerFunc(cardHandler.Create)))
	mux.Handle("PUT /api/cards/{id}", wrapGated(http.HandlerFunc(cardHandler.Update)))
	mux.Handle("DELETE /api/cards/{id}", wrapGated(http.HandlerFunc(cardHandler.Delete)))

	mux.Handle("GET /api/dashboard/stats", wrapGated(http.HandlerFunc(dashboardHandler.Stats)))

	// Subscription API (auth only: expired users must be able to subscribe)
	mux.Handle("POST /api/subscription", wrapAuth(http.HandlerFunc(subscriptionHandler.Subscribe)))
	mux.Handle("DELETE /api/subscription", wrapAuth(http.HandlerFunc(subscriptionHandler.Cancel)))

	// Webhooks (Mercado Pago authenticates deliveries with x-signature)
	mux.HandleFunc("POST /api/webhooks/mercadopago", webhookHandler.MercadoPago)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler.RequestLogger(h.CORS(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
