package config

import "github.com/spf13/viper"

// GradingConfig carries the tunables of the answer pipeline.
type GradingConfig struct {
	LLMProvider         string  // gemini or openrouter
	SearchBackend       string  // pgvector or memory
	SearchMetric        string  // cosine or l2, pgvector only
	SimilarityThreshold float64 // top-1 match is accepted when similarity >= threshold
	TopK                int     // candidates fetched for matching
	ContextK            int     // exemplars fed to answer generation
	ScoreMax            float64 // 10 or 100
	PassBar             float64 // session passes when average >= pass bar
	PassingScore        float64 // per-question pass mark given to the grader
	BatchConcurrency    int
}

func LoadGradingConfig(v *viper.Viper) *GradingConfig {
	cfg := &GradingConfig{
		LLMProvider:         v.GetString("llm_provider"),
		SearchBackend:       v.GetString("search_backend"),
		SearchMetric:        v.GetString("search_metric"),
		SimilarityThreshold: v.GetFloat64("similarity_threshold"),
		TopK:                v.GetInt("top_k_results"),
		ContextK:            v.GetInt("context_k"),
		ScoreMax:            v.GetFloat64("score_max"),
		PassBar:             v.GetFloat64("pass_bar"),
		PassingScore:        v.GetFloat64("passing_score"),
		BatchConcurrency:    v.GetInt("batch_concurrency"),
	}
	if cfg.PassingScore <= 0 {
		cfg.PassingScore = cfg.PassBar
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 1
	}
	return cfg
}
