package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/yourusername/clipcourier/internal/domain"
)

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	// Start with default config
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	// If config path is provided, use it
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.clipcourier")
		v.AddConfigPath("/etc/clipcourier")
	}

	// Read environment variables (e.g. CLIPCOURIER_BOT_TOKEN)
	v.SetEnvPrefix("CLIPCOURIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper only resolves environment overrides for keys it knows about, so
	// register every key with its default.
	setDefaults(v, config)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper, config *domain.Config) {
	v.SetDefault("bot.token", config.Bot.Token)
	v.SetDefault("bot.poll_timeout", config.Bot.PollTimeout)
	v.SetDefault("download.work_dir", config.Download.WorkDir)
	v.SetDefault("download.logs_dir", config.Download.LogsDir)
	v.SetDefault("download.target_height", config.Download.TargetHeight)
	v.SetDefault("download.concurrent_fragments", config.Download.ConcurrentFragments)
	v.SetDefault("download.ytdlp_binary", config.Download.YTDLPBinary)
	v.SetDefault("download.ffmpeg_path", config.Download.FFmpegPath)
	v.SetDefault("server.host", config.Server.Host)
	v.SetDefault("server.port", config.Server.Port)
	v.SetDefault("logging.level", config.Logging.Level)
	v.SetDefault("logging.format", config.Logging.Format)
	v.SetDefault("logging.output_path", config.Logging.OutputPath)
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.WorkDir = expandPath(config.Download.WorkDir)
	config.Download.LogsDir = expandPath(config.Download.LogsDir)
	config.Download.FFmpegPath = expandPath(config.Download.FFmpegPath)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig validates the configuration. A missing transport token is
// a fatal startup condition.
func validateConfig(config *domain.Config) error {
	if config.Bot.Token == "" {
		return fmt.Errorf("bot token not configured (set CLIPCOURIER_BOT_TOKEN)")
	}

	if config.Download.WorkDir == "" {
		return fmt.Errorf("download work directory not configured")
	}

	if config.Download.TargetHeight < 1 {
		return fmt.Errorf("target height must be positive")
	}

	if config.Download.ConcurrentFragments < 1 {
		return fmt.Errorf("concurrent fragments must be at least 1")
	}

	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}
