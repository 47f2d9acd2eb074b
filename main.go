package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"attorneyrisk/claim"
	"attorneyrisk/config"
	qhttp "attorneyrisk/http"
	"attorneyrisk/logging"
	"attorneyrisk/ml"
	"attorneyrisk/monitoring"
	"attorneyrisk/predictor"
)

type app struct {
	server  *qhttp.Server
	model   ml.Classifier
	watcher *ml.ArtifactWatcher
}

func main() {
	// 1. Load config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg.Log)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// 2. Load the model; nothing is served without it
	a, err := setup(cfg, logger)
	if err != nil {
		if errors.Is(err, ml.ErrMissingArtifact) {
			fmt.Fprintf(os.Stderr, "Model file not found. Please upload `%s`.\n", cfg.ML.ModelPath)
		}
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer a.close(logger)

	// 3. Start HTTP server
	go func() {
		if err := a.server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := a.server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("exiting")
}

// setup loads the model and wires the server without starting it. It fails
// before any handler exists when the artifact is missing or does not match
// the claim feature schema.
func setup(cfg *config.Config, logger *zap.Logger) (*app, error) {
	model, err := ml.LoadModel(cfg.ModelConfig(claim.FeatureNames()))
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	logger.Info("model loaded",
		zap.String("path", cfg.ML.ModelPath),
		zap.String("type", fmt.Sprintf("%T", model)))

	a := &app{model: model}
	if cfg.ML.WatchArtifact {
		watcher, err := ml.WatchArtifact(cfg.ML.ModelPath, logger, nil)
		if err != nil {
			logger.Warn("artifact watcher disabled", zap.Error(err))
		} else {
			a.watcher = watcher
		}
	}

	pred := predictor.New(model,
		predictor.WithCache(cfg.Predictor.CacheSize),
		predictor.WithLogger(logger))
	handler := qhttp.NewHandler(pred, monitoring.NewMetricsCollector(), logger)

	a.server = qhttp.NewServer(qhttp.ServerConfig{
		Port:           cfg.HTTP.Port,
		Timeout:        cfg.HTTP.Timeout,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
	}, handler, logger)
	return a, nil
}

func (a *app) close(logger *zap.Logger) {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			logger.Warn("close artifact watcher", zap.Error(err))
		}
	}
	if closer, ok := a.model.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("close model", zap.Error(err))
		}
	}
}
