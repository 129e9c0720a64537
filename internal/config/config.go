package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath   = "config.toml"
	DefaultRegistryPath = "users.db"
	DefaultMaxVideoMB   = 50
	DefaultMaxAudioMB   = 20
	DefaultWorkers      = 3
	DefaultSweepSpec    = "@every 1h"
	DefaultYtDlpPath    = "yt-dlp"
	DefaultFFmpegPath   = "ffmpeg"
)

// Env vars that override file values, so the bot can run without a config
// file at all in container deployments.
const (
	EnvBotToken = "BOT_TOKEN"
	EnvAdminIDs = "ADMIN_IDS"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Telegram TelegramConfig `toml:"telegram"`
	Admin    AdminConfig    `toml:"admin"`
	Registry RegistryConfig `toml:"registry"`
	Download DownloadConfig `toml:"download"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type TelegramConfig struct {
	Token string `toml:"token" validate:"required"`
}

type AdminConfig struct {
	IDs []int64 `toml:"ids"`
}

// IsAdmin reports whether id is in the static administrator set.
func (a AdminConfig) IsAdmin(id int64) bool {
	for _, admin := range a.IDs {
		if admin == id {
			return true
		}
	}
	return false
}

type RegistryConfig struct {
	Path string `toml:"path" validate:"required"`
}

type DownloadConfig struct {
	// Dir is the workspace root. Empty means os.TempDir().
	Dir        string `toml:"dir"`
	MaxVideoMB int64  `toml:"max_video_mb" validate:"gt=0"`
	MaxAudioMB int64  `toml:"max_audio_mb" validate:"gt=0"`
	Workers    int    `toml:"workers" validate:"gte=1"`
	SweepSpec  string `toml:"sweep" validate:"required"`
	YtDlpPath  string `toml:"yt_dlp_path" validate:"required"`
	FFmpegPath string `toml:"ffmpeg_path" validate:"required"`
}

// MaxVideoBytes returns the video delivery ceiling in bytes.
func (d DownloadConfig) MaxVideoBytes() int64 {
	return d.MaxVideoMB * 1024 * 1024
}

// MaxAudioBytes returns the audio delivery ceiling in bytes.
func (d DownloadConfig) MaxAudioBytes() int64 {
	return d.MaxAudioMB * 1024 * 1024
}

// Load reads the TOML config at path, applies environment overrides and
// validates the result. A missing config file is not an error: defaults plus
// environment values may be a complete configuration.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Registry: RegistryConfig{
			Path: DefaultRegistryPath,
		},
		Download: DownloadConfig{
			MaxVideoMB: DefaultMaxVideoMB,
			MaxAudioMB: DefaultMaxAudioMB,
			Workers:    DefaultWorkers,
			SweepSpec:  DefaultSweepSpec,
			YtDlpPath:  DefaultYtDlpPath,
			FFmpegPath: DefaultFFmpegPath,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks a fully assembled config.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if token := strings.TrimSpace(os.Getenv(EnvBotToken)); token != "" {
		cfg.Telegram.Token = token
	}
	if raw := strings.TrimSpace(os.Getenv(EnvAdminIDs)); raw != "" {
		ids, err := ParseAdminIDs(raw)
		if err != nil {
			return err
		}
		cfg.Admin.IDs = ids
	}
	return nil
}

// ParseAdminIDs parses a comma separated list of Telegram user ids.
func ParseAdminIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse admin id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
