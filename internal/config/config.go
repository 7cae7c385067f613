package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App        *AppConfig
	DB         *DBConfig
	Gemini     *GeminiConfig
	OpenRouter *OpenRouterConfig
	Grading    *GradingConfig
	RabbitMQ   *RabbitMQConfig
	Watcher    *WatcherConfig
}

// SetDefaults registers defaults and binds every key to its upper-case environment variable.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "interview-grader")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_port", ":8080")
	v.SetDefault("rate_limit", 50)
	v.SetDefault("rate_limit_window", "1m")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "interview_admin")
	v.SetDefault("db_name", "interview_system")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_timezone", "UTC")

	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("gemini_embedding_model", "gemini-embedding-001")
	v.SetDefault("embedding_cache_size", 10000)

	v.SetDefault("openrouter_model", "openai/gpt-4o-mini")
	v.SetDefault("openrouter_base_url", "https://openrouter.ai/api/v1")

	v.SetDefault("llm_provider", "gemini")
	v.SetDefault("search_backend", "pgvector")
	v.SetDefault("search_metric", "cosine")
	v.SetDefault("similarity_threshold", 0.8)
	v.SetDefault("top_k_results", 3)
	v.SetDefault("context_k", 3)
	v.SetDefault("score_max", 10.0)
	v.SetDefault("pass_bar", 6.0)
	v.SetDefault("batch_concurrency", 1)

	v.SetDefault("rabbitmq_queue", "evaluation_queue")

	v.SetDefault("watch_dir", "./inbox")
	v.SetDefault("watch_extensions", []string{".txt", ".pdf"})
	v.SetDefault("watch_debounce", "2s")
	v.SetDefault("watch_position", "N/A")

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// Load reads every config section from v and validates the grading tunables.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App:        LoadAppConfig(v),
		DB:         LoadDBConfig(v),
		Gemini:     LoadGeminiConfig(v),
		OpenRouter: LoadOpenRouterConfig(v),
		Grading:    LoadGradingConfig(v),
		RabbitMQ:   LoadRabbitMQConfig(v),
		Watcher:    LoadWatcherConfig(v),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	g := c.Grading
	var errs []error
	if g.SimilarityThreshold < 0 || g.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("similarity_threshold must be within [0,1], got %v", g.SimilarityThreshold))
	}
	if g.TopK <= 0 {
		errs = append(errs, fmt.Errorf("top_k_results must be positive, got %d", g.TopK))
	}
	if g.ContextK <= 0 {
		errs = append(errs, fmt.Errorf("context_k must be positive, got %d", g.ContextK))
	}
	if g.ScoreMax <= 0 {
		errs = append(errs, fmt.Errorf("score_max must be positive, got %v", g.ScoreMax))
	}
	if g.PassBar < 0 || g.PassBar > g.ScoreMax {
		errs = append(errs, fmt.Errorf("pass_bar must be within [0,%v], got %v", g.ScoreMax, g.PassBar))
	}
	switch g.LLMProvider {
	case "gemini", "openrouter":
	default:
		errs = append(errs, fmt.Errorf("unknown llm_provider %q", g.LLMProvider))
	}
	switch g.SearchBackend {
	case "pgvector", "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown search_backend %q", g.SearchBackend))
	}
	switch g.SearchMetric {
	case "cosine", "l2":
	default:
		errs = append(errs, fmt.Errorf("unknown search_metric %q", g.SearchMetric))
	}
	return errors.Join(errs...)
}
