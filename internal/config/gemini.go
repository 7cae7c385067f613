package config

import "github.com/spf13/viper"

type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	CacheSize      int
}

func LoadGeminiConfig(v *viper.Viper) *GeminiConfig {
	return &GeminiConfig{
		APIKey:         v.GetString("gemini_api_key"),
		Model:          v.GetString("gemini_model"),
		EmbeddingModel: v.GetString("gemini_embedding_model"),
		CacheSize:      v.GetInt("embedding_cache_size"),
	}
}
