package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/openpool/purseledger/internal/auth"
	"github.com/openpool/purseledger/internal/ledger"
	"github.com/openpool/purseledger/internal/metrics"
	"github.com/openpool/purseledger/internal/middleware"
	"github.com/openpool/purseledger/internal/service"
	"github.com/openpool/purseledger/internal/storage/sqlite"
	"github.com/openpool/purseledger/internal/transfer"
	"github.com/openpool/purseledger/pkg/logging"
)

const tokenDuration = 24 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// Setup structured logging
	logging.Setup()

	// Get config from env or use defaults
	dbPath := getEnv("DB_PATH", "./data/purchases.db")
	adminAccount := getEnv("ADMIN_ACCOUNT", "admin")
	poolAccount := getEnv("POOL_ACCOUNT", "pool")
	port := getEnv("PORT", "8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-change-me"
		slog.Warn("JWT_SECRET not set, using insecure development secret")
	}

	ctx := context.Background()

	// Initialize SQLite storage
	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	// In-process transfer collaborator holding all account balances
	bank := transfer.NewBank(poolAccount)

	// Purchase ledger, replayed from storage
	l, err := ledger.New(ctx, adminAccount, poolAccount, bank, store)
	if err != nil {
		slog.Error("Failed to initialize ledger", "error", err)
		os.Exit(1)
	}
	slog.Info("Ledger initialized", "records", l.RecordCount(), "admin", adminAccount)

	// Prometheus instrumentation fed by ledger events
	m := metrics.New(prometheus.DefaultRegisterer)
	if balance, err := l.PoolBalance(ctx); err == nil {
		m.SetPooledBalance(balance)
	}
	l.Subscribe(m)

	// Auth: bcrypt accounts + JWT sessions
	jwtManager := auth.NewJWTManager(jwtSecret, tokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	mux := http.NewServeMux()
	service.NewAuthService(authenticator, jwtManager).Register(mux)
	service.NewLedgerService(l, bank, m).Register(mux, middleware.RequireAuth(jwtManager))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Add logging and CORS middleware
	handler := middleware.Logging(middleware.CORS(mux))

	// Wrap with h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
