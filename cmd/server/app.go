package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fadilmartias/interview-grader/internal/chain"
	"github.com/fadilmartias/interview-grader/internal/config"
	"github.com/fadilmartias/interview-grader/internal/logger"
	"github.com/fadilmartias/interview-grader/internal/metrics"
	"github.com/fadilmartias/interview-grader/internal/model"
	"github.com/fadilmartias/interview-grader/internal/pipeline"
	"github.com/fadilmartias/interview-grader/internal/queue"
	"github.com/fadilmartias/interview-grader/internal/repository"
	"github.com/fadilmartias/interview-grader/internal/search"
	"github.com/fadilmartias/interview-grader/internal/service"
	"github.com/fadilmartias/interview-grader/internal/usecase"
)

// application holds everything a command needs, wired from configuration.
type application struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	metrics *metrics.Metrics
	queue   *queue.RabbitMQ

	pipeline    *pipeline.Pipeline
	interviews  *usecase.InterviewUsecase
	reports     *usecase.ReportUsecase
	questions   *usecase.QuestionUsecase
	transcripts *usecase.TranscriptUsecase
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// newApplication connects every dependency. withQueue dials RabbitMQ when
// it is configured.
func newApplication(ctx context.Context, log *zap.Logger, withQueue bool) (*application, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := ConnectDB(cfg.DB, cfg.App, log)
	if err != nil {
		return nil, err
	}

	gemini, err := service.NewGeminiService(ctx, cfg.Gemini, log.Named("gemini"))
	if err != nil {
		return nil, err
	}
	embedder, err := service.NewCachedEmbedder(gemini, cfg.Gemini.CacheSize)
	if err != nil {
		return nil, err
	}

	var llm service.TextGenerator = gemini
	if cfg.Grading.LLMProvider == "openrouter" {
		llm, err = service.NewOpenRouterService(cfg.OpenRouter, log.Named("openrouter"))
		if err != nil {
			return nil, err
		}
	}

	users := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	interactions := repository.NewInteractionRepository(db)
	sessions := repository.NewSessionRepository(db)

	var (
		searcher pipeline.Searcher
		index    usecase.CorpusIndex
	)
	switch cfg.Grading.SearchBackend {
	case "memory":
		mem, err := search.NewMemorySearcher(embedder)
		if err != nil {
			return nil, err
		}
		searcher, index = mem, mem
	default:
		searcher = search.NewPgvectorSearcher(embedder, questionRepo, repository.DistanceMetric(cfg.Grading.SearchMetric))
	}

	questions := usecase.NewQuestionUsecase(questionRepo, embedder, index, log.Named("questions"))
	if n, err := questions.LoadIndex(ctx); err != nil {
		return nil, fmt.Errorf("load question index: %w", err)
	} else if index != nil {
		log.Info("question corpus loaded into memory", zap.Int("questions", n))
	}

	g := cfg.Grading
	m := metrics.New()
	plog := log.Named("pipeline")
	resolver := pipeline.NewResolver(searcher, g.SimilarityThreshold, g.TopK, plog)
	normalizer := pipeline.NewNormalizer(chain.NewSummarizeChain(llm), plog)
	provider := pipeline.NewReferenceProvider(resolver, searcher, chain.NewAnswerChain(llm), normalizer, g.ContextK, plog)
	grader := pipeline.NewGrader(chain.NewGradingChain(llm, g.ScoreMax, g.PassingScore), pipeline.NewScale(g.ScoreMax), plog)
	aggregator := pipeline.NewAggregator(chain.NewSessionSummaryChain(llm, g.ScoreMax), sessions, g.PassBar, plog)

	p := pipeline.New(pipeline.Deps{
		Provider:   provider,
		Grader:     grader,
		Recorder:   pipeline.NewRecorder(interactions),
		Aggregator: aggregator,
		Users:      users,
		Metrics:    m,
		Logger:     plog,
	}, g.BatchConcurrency)

	a := &application{
		cfg:         cfg,
		logger:      log,
		db:          db,
		metrics:     m,
		pipeline:    p,
		reports:     usecase.NewReportUsecase(sessions, interactions, questionRepo, users),
		questions:   questions,
		transcripts: usecase.NewTranscriptUsecase(chain.NewTranscriptChain(llm, log.Named("transcript")), p, log.Named("transcript")),
	}

	var publisher usecase.Publisher
	if withQueue && cfg.RabbitMQ.Enabled() {
		a.queue, err = queue.NewRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log.Named("queue"))
		if err != nil {
			return nil, err
		}
		publisher = a.queue
	}
	a.interviews = usecase.NewInterviewUsecase(p, users, publisher, log.Named("interviews"))

	return a, nil
}

// Close waits for background batches and releases connections.
func (a *application) Close() {
	a.interviews.Wait()
	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			a.logger.Warn("closing RabbitMQ", zap.Error(err))
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}

func ConnectDB(dbConfig *config.DBConfig, appConfig *config.AppConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get database instance: %w", err)
	}
	if appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	} else {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("enable pgvector: %w", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Question{}, &model.Interaction{}, &model.SessionSummary{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	log.Info("database ready", zap.String("host", dbConfig.Host), zap.String("name", dbConfig.Name))
	return db, nil
}
