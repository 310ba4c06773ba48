package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/ogurasousui/employee-record-store/internal/adapters/grpc/interceptor"
	"github.com/ogurasousui/employee-record-store/internal/core/employee"
	"github.com/ogurasousui/employee-record-store/internal/platform/config"
	"github.com/ogurasousui/employee-record-store/internal/platform/logging"
	"github.com/ogurasousui/employee-record-store/internal/platform/metrics"
	"github.com/ogurasousui/employee-record-store/internal/platform/server"
	"github.com/ogurasousui/employee-record-store/internal/platform/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize logger")
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	backend, err := storage.Open(ctx, cfg, logging.Component(logger, "storage"))
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	store, err := employee.Open(ctx, backend.Snapshots,
		employee.WithLogger(logging.Component(logger, "store")),
		employee.WithRecorder(m),
	)
	if err != nil {
		return err
	}

	if cfg.Metrics.ListenAddr != "" {
		metricsSrv := &http.Server{
			Addr:              cfg.Metrics.ListenAddr,
			Handler:           metricsMux(m),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.WithField("addr", cfg.Metrics.ListenAddr).Info("metrics endpoint listening")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("metrics endpoint stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	grpcServer := server.New(cfg.Server.ListenAddr, store, []grpc.UnaryServerInterceptor{
		interceptor.Logging(logging.Component(logger, "grpc")),
		m.UnaryServerInterceptor(),
	})

	logger.WithField("addr", cfg.Server.ListenAddr).Info("gRPC server listening")
	return grpcServer.Run(ctx)
}

func metricsMux(m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}
