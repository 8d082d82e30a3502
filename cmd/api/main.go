package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/premstats/premstats/internal/cache"
	"github.com/premstats/premstats/internal/config"
	"github.com/premstats/premstats/internal/llm"
	"github.com/premstats/premstats/internal/metrics"
	"github.com/premstats/premstats/internal/pipeline"
	"github.com/premstats/premstats/internal/server"
	"github.com/premstats/premstats/internal/store"
)

// loadEnv loads .env from the project root before anything reads os.Getenv.
func loadEnv(logger *logrus.Logger) {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main wires the store, completion client and pipeline into the HTTP server
// and runs it with graceful shutdown.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if cfg.DevMode {
		logger.SetLevel(logrus.DebugLevel)
	}
	if cfg.OpenRouterAPIKey == "" {
		logger.Fatal("OPENROUTER_API_KEY is required. Please set it in your environment or .env file.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Postgres match store
	st, err := store.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer st.Close()

	// Completion client
	completer, err := llm.NewClient(llm.ClientConfig{
		APIKey:            cfg.OpenRouterAPIKey,
		BaseURL:           cfg.LLMBaseURL,
		Model:             cfg.Model,
		RequestsPerMinute: cfg.LLMRequestsPerMin,
		Logger:            logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create completion client")
	}

	// Prometheus metrics, served on /metrics
	pipelineMetrics := metrics.New(prometheus.DefaultRegisterer)

	pipe := pipeline.New(pipeline.Config{
		Completer: completer,
		Store:     st,
		Logger:    logger,
		Metrics:   pipelineMetrics,
	})

	// Optional Redis answer cache
	var answers *cache.AnswerCache
	if cfg.RedisAddr != "" {
		rclient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rclient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, running without answer cache")
		} else {
			answers, err = cache.New(rclient, cfg.AnswerCacheTTL)
			if err != nil {
				logger.WithError(err).Fatal("failed to create answer cache")
			}
			logger.WithField("ttl", cfg.AnswerCacheTTL).Info("answer cache enabled")
		}
	}

	h := &server.Handlers{
		Pipeline:   pipe,
		Store:      st,
		Answers:    answers,
		AskTimeout: cfg.AskTimeout,
		Logger:     logger,
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:        cfg.APIAddr,
			DevMode:     cfg.DevMode,
			AddToken:    cfg.AddAccessToken,
			UpdateToken: cfg.UpdateAccessToken,
			DeleteToken: cfg.DeleteAccessToken,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithField("addr", cfg.APIAddr).Info("api server starting")
	if err := srv.Start(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		logger.WithError(err).Fatal("api server failed")
	}

	if err := srv.WaitClosed(context.Background()); err != nil {
		fmt.Println(err)
	}
}
