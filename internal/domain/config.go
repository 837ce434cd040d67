package domain

import "time"

// Config represents the application configuration
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Download DownloadConfig `mapstructure:"download"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// BotConfig contains chat-transport configuration
type BotConfig struct {
	Token       string        `mapstructure:"token"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	WorkDir             string `mapstructure:"work_dir"`
	LogsDir             string `mapstructure:"logs_dir"`
	TargetHeight        int    `mapstructure:"target_height"`
	ConcurrentFragments int    `mapstructure:"concurrent_fragments"`
	YTDLPBinary         string `mapstructure:"ytdlp_binary"`
	FFmpegPath          string `mapstructure:"ffmpeg_path"` // optional override; empty means "ffmpeg" from PATH
}

// ServerConfig contains the ops HTTP server configuration.
// Port 0 disables the server entirely.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Bot: BotConfig{
			Token:       "",
			PollTimeout: 30 * time.Second,
		},
		Download: DownloadConfig{
			WorkDir:             "$HOME/.clipcourier/work",
			LogsDir:             "$HOME/.clipcourier/logs",
			TargetHeight:        1080,
			ConcurrentFragments: 8,
			YTDLPBinary:         "yt-dlp",
			FFmpegPath:          "",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8090,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
