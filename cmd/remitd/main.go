package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"remitpool/config"
	"remitpool/core/events"
	"remitpool/core/state"
	"remitpool/native/rates"
	"remitpool/native/remit"
	"remitpool/observability"
	"remitpool/observability/logging"
	"remitpool/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.Setup("remitd", cfg.Environment)

	owner, err := cfg.OwnerAddress()
	if err != nil {
		logger.Error("Failed to resolve owner address", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	manager := state.NewManager(db)

	registry := prometheus.NewRegistry()
	emitter := events.MultiEmitter{
		observability.NewMetricsEmitter(registry),
		&logEmitter{log: logger},
	}

	ledger := remit.NewEngine()
	ledger.SetState(manager)
	ledger.SetOwner(owner)
	ledger.SetEmitter(emitter)

	oracle := rates.NewOracle()
	oracle.SetState(manager)
	oracle.SetOwner(owner)
	oracle.SetEmitter(emitter)

	feeBps, err := ledger.PlatformFeeBps()
	if err != nil {
		logger.Error("Failed to read platform fee", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("remitd started",
		slog.String("dataDir", cfg.DataDir),
		slog.Uint64("platformFeeBps", uint64(feeBps)),
		slog.Bool("ledgerPaused", ledger.Paused()),
		slog.Bool("oracleActive", oracle.Active()),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: cfg.MetricsAddress, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.Any("error", err))
	}
	logger.Info("remitd stopped")
}

// logEmitter mirrors every ledger event into the structured log.
type logEmitter struct {
	log *slog.Logger
}

func (l *logEmitter) Emit(evt events.Event) {
	if l == nil || l.log == nil || evt == nil {
		return
	}
	l.log.Info("ledger event", slog.String("type", evt.EventType()))
}
