package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Username string  `yaml:"username"`
	Workers  int     `yaml:"workers"`   // update handling workers
	AdminIDs []int64 `yaml:"admin_ids"` // report peers for internal failures
	Language string  `yaml:"language"`  // fa | en
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"` // bearer token for /api/v1; stats are disabled when empty
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CobaltConfig struct {
	Endpoint        string        `yaml:"endpoint"`
	ResolveTimeout  time.Duration `yaml:"resolve_timeout"` // bound imposed around each dispatch
	VideoQuality    string        `yaml:"video_quality"`
	VideoCodec      string        `yaml:"video_codec"`
	AudioFormat     string        `yaml:"audio_format"`
	FilenamePattern string        `yaml:"filename_pattern"`
	AcceptLanguage  string        `yaml:"accept_language"`
	DisableMetadata bool          `yaml:"disable_metadata"`
}

type SessionConfig struct {
	Backend       string        `yaml:"backend"` // file | redis
	Path          string        `yaml:"path"`
	Key           string        `yaml:"key"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

type UploadConfig struct {
	ProgressInterval time.Duration `yaml:"progress_interval"`
	Timeout          time.Duration `yaml:"timeout"`
}

type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Log     LogConfig     `yaml:"log"`
	Admin   AdminConfig   `yaml:"admin"`
	Redis   RedisConfig   `yaml:"redis"`
	Cobalt  CobaltConfig  `yaml:"cobalt"`
	Session SessionConfig `yaml:"session"`
	Upload  UploadConfig  `yaml:"upload"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadDotEnv exports the variables in a .env file so ${VAR} references in the
// YAML can use them. A missing file is not an error; variables already set in
// the environment win.
func LoadDotEnv(path string) (bool, error) {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}

// LoadConfig reads the YAML file at path, expands ${VAR} references from the
// environment and fills in defaults.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return cfg, nil
}

// Parse decodes raw YAML into a validated Config.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	switch cfg.Session.Backend {
	case "file":
	case "redis":
		if cfg.Redis.URL == "" {
			return nil, errors.New("redis.url is required for session.backend=redis")
		}
	default:
		return nil, fmt.Errorf("unknown session.backend %q", cfg.Session.Backend)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Language == "" {
		cfg.Bot.Language = "fa"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 9090
	}
	if cfg.Cobalt.Endpoint == "" {
		cfg.Cobalt.Endpoint = "https://api.cobalt.tools/api/json"
	}
	if cfg.Cobalt.ResolveTimeout <= 0 {
		cfg.Cobalt.ResolveTimeout = 2 * time.Minute
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = "file"
	}
	if cfg.Session.Path == "" {
		cfg.Session.Path = "bot.session.json"
	}
	if cfg.Session.Key == "" {
		cfg.Session.Key = "igdl:session"
	}
	if cfg.Session.FlushInterval <= 0 {
		cfg.Session.FlushInterval = time.Minute
	}
	if cfg.Upload.ProgressInterval <= 0 {
		cfg.Upload.ProgressInterval = 10 * time.Second
	}
	if cfg.Upload.Timeout <= 0 {
		cfg.Upload.Timeout = 30 * time.Minute
	}
}
