package config

import (
	"time"

	"github.com/spf13/viper"
)

type WatcherConfig struct {
	InboxDir   string
	Extensions []string
	Debounce   time.Duration
	Position   string
}

func LoadWatcherConfig(v *viper.Viper) *WatcherConfig {
	return &WatcherConfig{
		InboxDir:   v.GetString("watch_dir"),
		Extensions: v.GetStringSlice("watch_extensions"),
		Debounce:   v.GetDuration("watch_debounce"),
		Position:   v.GetString("watch_position"),
	}
}
