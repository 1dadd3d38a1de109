package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"illuminator-billing/internal/billing/application"
	billinghttp "illuminator-billing/internal/billing/interfaces/http"
	"illuminator-billing/internal/config"
	"illuminator-billing/internal/observability/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg := loadServerConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	store, err := config.NewStore(cfg.ConfigPath, logger)
	if err != nil {
		logger.Fatalf("config load error: %v", err)
	}
	if err := store.Watch(); err != nil {
		logger.Fatalf("config watch error: %v", err)
	}
	defer store.Close()

	metrics.Init()

	service, err := application.NewService(settingsProvider{store: store}, logger)
	if err != nil {
		logger.Fatalf("billing service error: %v", err)
	}
	billingHandler, err := billinghttp.NewBillingHandler(service, logger)
	if err != nil {
		logger.Fatalf("billing handler error: %v", err)
	}

	router := mux.NewRouter()
	billingHandler.Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handlers.LoggingHandler(os.Stdout, router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type serverConfig struct {
	HTTPAddr   string
	ConfigPath string
}

func loadServerConfig() serverConfig {
	return serverConfig{
		HTTPAddr:   getenvDefault("HTTP_ADDR", ":8080"),
		ConfigPath: getenvDefault("ILLUMINATOR_CONFIG", "config.yaml"),
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

// settingsProvider adapts the hot-reloading config store to the
// billing service. Each run snapshots the config once.
type settingsProvider struct {
	store *config.Store
}

func (p settingsProvider) BillingSettings() application.Settings {
	cfg := p.store.Current()
	return application.Settings{
		Mapping:      cfg.Mapping(),
		Rules:        cfg.Rules(),
		RateOverride: cfg.Billing.RatePerKWh,
		FallbackRate: cfg.Billing.FallbackRatePerKWh,
	}
}
