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

	"finance-coach/config"
	"finance-coach/engine"
	httpLayer "finance-coach/http"
	"finance-coach/repository"
	"finance-coach/service"
)

func main() {
	cfg := config.Load()
	logger := cfg.NewLogger()

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	cache, closeCache := newCache(cfg, logger)
	defer closeCache()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	policy := engine.DefaultScorePolicy().WithDiscretionaryCategories(cfg.ScoreDiscretionaryCategories)
	financeService := service.NewFinanceService(cache, logger, service.NewMetrics(registry), policy, cfg.DefaultMonthlyRate)
	transactionService := service.NewTransactionService(repository.NewTransactionRepositoryMemory(), financeService, logger)

	generator := service.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.AITimeout)
	classifier := service.NewClassifier(generator, logger)
	coach := service.NewCoachService(generator, "openai", logger)
	chatService := service.NewChatService(classifier, coach, financeService, logger)

	transcriber := service.NewOpenAITranscriber(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAITranscriptionModel, cfg.AITimeout)
	voiceService := service.NewVoiceService(transcriber, chatService, logger)

	// No OCR backend ships with the server; receipt scanning reports 503
	// until a TextRecognizer is plugged in here.
	receiptService := service.NewReceiptService(nil, financeService, logger)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	chatHandler := httpLayer.NewChatHandler(chatService, transactionService, logger)
	router := httpLayer.NewRouter(httpLayer.Handlers{
		Finance:      httpLayer.NewFinanceHandler(financeService, logger),
		Transactions: httpLayer.NewTransactionHandler(transactionService, logger),
		Chat:         chatHandler,
		Voice:        httpLayer.NewVoiceHandler(voiceService, chatHandler, logger),
		Receipts:     httpLayer.NewReceiptHandler(receiptService, transactionService, logger),
	}, httpLayer.RouterOptions{
		Logger:       logger,
		Limiter:      rateLimiter,
		Metrics:      httpLayer.NewHTTPMetrics(registry),
		Gatherer:     registry,
		MaxBodyBytes: cfg.MaxUploadBytes,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15*time.Second + cfg.AITimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port":     cfg.Port,
			"provider": coach.Provider(context.Background()),
		}).Info("🚀 API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.WithError(err).Error("error starting server")
		return
	case <-quit:
		logger.Info("shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("error during server shutdown")
	}

	logger.Info("server exited")
}

// newCache connects to Redis when REDIS_ADDR is set and falls back to an
// in-process cache when it is unset or unreachable.
func newCache(cfg *config.Config, logger *logrus.Logger) (repository.CacheRepository, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory projection cache")
		return repository.NewMemoryCache(cfg.CacheTTL), func() {}
	}

	redisCache := repository.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		logger.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unreachable, using in-memory projection cache")
		_ = redisCache.Close()
		return repository.NewMemoryCache(cfg.CacheTTL), func() {}
	}

	logger.WithField("addr", cfg.RedisAddr).Info("using redis projection cache")
	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			logger.WithError(err).Warn("error closing redis")
		}
	}
}
