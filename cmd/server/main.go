package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"moneytalk/internal/config"
	"moneytalk/internal/extract"
	"moneytalk/internal/handlers"
	"moneytalk/internal/intent"
	"moneytalk/internal/ledger"
	"moneytalk/internal/llm"
	"moneytalk/internal/logger"
	"moneytalk/internal/orchestrator"
	"moneytalk/internal/period"
	"moneytalk/internal/report"
	"moneytalk/internal/storage"
	"moneytalk/internal/transcribe"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := ledger.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open ledger database")
	}
	defer db.Close()
	repo := ledger.NewRepository(db)

	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}

	var gen report.Generator
	switch cfg.LLMProvider {
	case "gemini":
		gc, err := llm.NewGeminiClient(ctx, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize gemini client")
		}
		gen = gc
	default:
		gen = llm.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel)
	}

	prompts := llm.NewPromptCache()
	policy := report.RetryPolicy{
		Timeouts: []time.Duration{cfg.ReportFirstTimeout, cfg.ReportRetryTimeout},
	}
	synth := report.NewSynthesizer(gen, policy, log)
	if cfg.ReportPromptFile != "" {
		synth.WithTemplateSource(func() string {
			return prompts.GetOrDefault(cfg.ReportPromptFile, report.DefaultPromptTemplate())
		})
	}

	classifier := intent.NewClassifier(intent.DefaultConfig())
	orc := orchestrator.New(
		classifier,
		period.NewResolver(),
		extract.NewExtractor(),
		repo,
		synth,
		prompts,
		cfg.MinInputRunes,
		log,
	)

	classify := func(ctx context.Context, text string) intent.Score {
		return classifier.Classify(text)
	}
	if cfg.IntentLLMAssist {
		lc := intent.NewLLMClassifier(gen)
		classify = lc.Classify
	}

	transcriber := transcribe.NewClient(cfg.TranscribeEndpoint)

	h, err := handlers.New(orc, repo, store, transcriber, classify)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize handlers")
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(logger.Middleware(log))

	r.Post("/api/chat", h.Chat)
	r.Post("/api/chat/voice", h.ChatVoice)
	r.Post("/api/chat/photo", h.ChatPhoto)
	r.Get("/api/transactions/recent", h.GetRecentTransactions)
	r.Get("/api/report", h.GetReport)
	r.Post("/api/intent", h.ClassifyIntent)
	r.Post("/api/prompts/clear", h.ClearPromptCache)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.ServerPort).Str("llm_provider", cfg.LLMProvider).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped cleanly")
}
