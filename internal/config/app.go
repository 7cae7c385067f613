package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Name    string
	Env     string
	Port    string
	BaseURL string
	Debug   bool
	JSONLog bool

	// RateLimit requests per client within RateWindow on the API routes.
	RateLimit  int
	RateWindow time.Duration
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func LoadAppConfig(v *viper.Viper) *AppConfig {
	return &AppConfig{
		Name:    v.GetString("app_name"),
		Env:     v.GetString("app_env"),
		Port:    v.GetString("app_port"),
		BaseURL: v.GetString("app_url"),
		Debug:   v.GetBool("debug"),
		JSONLog: v.GetBool("json"),

		RateLimit:  v.GetInt("rate_limit"),
		RateWindow: v.GetDuration("rate_limit_window"),
	}
}
