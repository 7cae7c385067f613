package config

import "github.com/spf13/viper"

type RabbitMQConfig struct {
	URL   string
	Queue string
}

// Enabled reports whether async jobs go through RabbitMQ instead of in-process goroutines.
func (c *RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

func LoadRabbitMQConfig(v *viper.Viper) *RabbitMQConfig {
	return &RabbitMQConfig{
		URL:   v.GetString("rabbitmq_url"),
		Queue: v.GetString("rabbitmq_queue"),
	}
}
