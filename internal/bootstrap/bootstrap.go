// Package bootstrap loads the daemon's process-level configuration: the
// ffmpeg binary path, log level, and default hotkey combo. These are
// loaded before internal/app's AmbientConfig is read. It layers
// github.com/spf13/viper over built-in defaults and an optional config
// file, the way harnyk-shutupandtype-x11's initConfig layers viper over
// viper.SetDefault calls, generalized from that single-binary's flat
// package-level viper calls to a Config value internal/engine's caller
// can pass around explicitly.
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the daemon's bootstrap configuration: the handful of settings
// needed before the Engine itself can be constructed.
type Config struct {
	FFmpegPath  string
	LogLevel    string
	HotkeyCombo []string
}

// Load reads bootstrap.yaml from $HOME/.config/pushtoholdd or the working
// directory (the same paths on every platform), with PUSHTOHOLD_-prefixed
// environment variables overriding, falling back to built-in defaults for
// anything unset. A
// missing config file is not an error, most installs never need one.
func Load() (Config, error) {
	viper.SetConfigName("bootstrap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.config/pushtoholdd")
	viper.AddConfigPath(".")

	viper.SetDefault("ffmpeg_path", "ffmpeg")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("hotkey_combo", []string{"ctrl", "shift", "r"})

	viper.SetEnvPrefix("PUSHTOHOLD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read bootstrap config: %w", err)
		}
	}

	return Config{
		FFmpegPath:  viper.GetString("ffmpeg_path"),
		LogLevel:    strings.ToLower(viper.GetString("log_level")),
		HotkeyCombo: viper.GetStringSlice("hotkey_combo"),
	}, nil
}

// Debug reports whether LogLevel requests debug-level logging.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}
