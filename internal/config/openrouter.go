package config

import "github.com/spf13/viper"

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func LoadOpenRouterConfig(v *viper.Viper) *OpenRouterConfig {
	return &OpenRouterConfig{
		APIKey:  v.GetString("openrouter_api_key"),
		Model:   v.GetString("openrouter_model"),
		BaseURL: v.GetString("openrouter_base_url"),
	}
}
