package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
	TMDB    TMDBConfig    `yaml:"tmdb"`
	Player  PlayerConfig  `yaml:"player"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	HTTPPort       int      `yaml:"http_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type MetricsConfig struct {
	Port int `yaml:"port"` // 0 disables the metrics server
}

type TMDBConfig struct {
	// APIKey is optional; when empty the key is read from APIKeyEnv on every request.
	APIKey       string `yaml:"api_key"`
	APIKeyEnv    string `yaml:"api_key_env"`
	EnvFile      string `yaml:"env_file"`       // dotenv file loaded at startup
	WatchEnvFile bool   `yaml:"watch_env_file"` // reload EnvFile when it changes
	BaseURL      string `yaml:"base_url"`
	ImageBaseURL string `yaml:"image_base_url"`
	Timeout      int    `yaml:"timeout"` // seconds
}

type PlayerConfig struct {
	BaseURL string `yaml:"base_url"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text or json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:       4444,
			AllowedOrigins: []string{"*"},
		},
		Metrics: MetricsConfig{
			Port: 9464,
		},
		TMDB: TMDBConfig{
			APIKeyEnv:    "TMDB_API_KEY",
			EnvFile:      ".env",
			WatchEnvFile: true,
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Timeout:      10,
		},
		Player: PlayerConfig{
			BaseURL: "https://vidsrc.me/embed",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads configuration from a YAML file, then applies .env and environment overrides
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// A missing .env is the normal case in production.
	if cfg.TMDB.EnvFile != "" {
		_ = godotenv.Load(cfg.TMDB.EnvFile)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := envInt("MARQUEE_HTTP_PORT"); ok {
		cfg.Server.HTTPPort = v
	}
	if v, ok := envInt("MARQUEE_METRICS_PORT"); ok {
		cfg.Metrics.Port = v
	}
	if v := os.Getenv("MARQUEE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TMDB_BASE_URL"); v != "" {
		cfg.TMDB.BaseURL = v
	}
	if cfg.TMDB.APIKeyEnv == "" {
		cfg.TMDB.APIKeyEnv = "TMDB_API_KEY"
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// EnsureDirectories creates required directories
func (c *Config) EnsureDirectories() error {
	if c.Log.File == "" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(c.Log.File), 0755)
}
