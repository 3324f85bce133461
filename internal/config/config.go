// Package config loads canopy configuration from an optional YAML file
// overlaid with environment variables. Precedence: defaults, then file,
// then environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all canopy configuration.
type Config struct {
	Connector ConnectorConfig `yaml:"connector"`
	Engine    EngineConfig    `yaml:"engine"`
	Store     StoreConfig     `yaml:"store"`
	Output    OutputConfig    `yaml:"output"`
}

// ConnectorConfig holds acquisition settings.
type ConnectorConfig struct {
	Provider     string            `yaml:"provider"` // "reddit" or "file"
	BaseURL      string            `yaml:"base_url"`
	UserAgent    string            `yaml:"user_agent"`
	Subreddits   []string          `yaml:"subreddits"`
	PostLimit    int               `yaml:"post_limit"`
	CommentLimit int               `yaml:"comment_limit"`
	Extra        map[string]string `yaml:"extra"`
}

// EngineConfig holds classification engine settings.
type EngineConfig struct {
	ModelPath   string  `yaml:"model_path"`
	VocabPath   string  `yaml:"vocab_path"`
	Threshold   float64 `yaml:"threshold"`
	MaxLength   int     `yaml:"max_length"`
	PoolSize    int     `yaml:"pool_size"`
	MinTreeSize int     `yaml:"min_tree_size"` // posts with fewer nodes are skipped
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig holds report destination settings.
type OutputConfig struct {
	Format     string `yaml:"format"` // "stdout" or "file"
	Path       string `yaml:"path"`   // for the file format
	Detail     string `yaml:"detail"` // "summary" or "full"
	Pretty     bool   `yaml:"pretty"`
	WebhookURL string `yaml:"webhook_url"` // optional secondary destination
}

// Defaults matching the NLI classification setup this tool ships with.
func defaults() Config {
	return Config{
		Connector: ConnectorConfig{
			Provider:     "reddit",
			UserAgent:    "canopy/0.1 (discussion attitude analyzer)",
			PostLimit:    100,
			CommentLimit: 10,
		},
		Engine: EngineConfig{
			ModelPath:   "models/model_quantized.onnx",
			VocabPath:   "models/vocab.txt",
			Threshold:   0.3,
			MaxLength:   192,
			PoolSize:    4,
			MinTreeSize: 3,
		},
		Store: StoreConfig{
			Path: "canopy.db",
		},
		Output: OutputConfig{
			Format: "stdout",
			Detail: "summary",
		},
	}
}

// Load reads configuration from the YAML file at CANOPY_CONFIG (or
// ./canopy.yaml when present), then applies environment overrides.
func Load() (Config, error) {
	cfg := defaults()

	path := os.Getenv("CANOPY_CONFIG")
	if path == "" {
		if _, err := os.Stat("canopy.yaml"); err == nil {
			path = "canopy.yaml"
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Connector.Provider, "CANOPY_CONNECTOR")
	setString(&cfg.Connector.BaseURL, "CANOPY_BASE_URL")
	setString(&cfg.Connector.UserAgent, "CANOPY_USER_AGENT")
	if v := os.Getenv("CANOPY_SUBREDDITS"); v != "" {
		var subs []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				subs = append(subs, s)
			}
		}
		cfg.Connector.Subreddits = subs
	}
	setInt(&cfg.Connector.PostLimit, "CANOPY_POST_LIMIT")
	setInt(&cfg.Connector.CommentLimit, "CANOPY_COMMENT_LIMIT")

	setString(&cfg.Engine.ModelPath, "CANOPY_MODEL_PATH")
	setString(&cfg.Engine.VocabPath, "CANOPY_VOCAB_PATH")
	setFloat(&cfg.Engine.Threshold, "CANOPY_THRESHOLD")
	setInt(&cfg.Engine.MaxLength, "CANOPY_MAX_LENGTH")
	setInt(&cfg.Engine.PoolSize, "CANOPY_POOL_SIZE")
	setInt(&cfg.Engine.MinTreeSize, "CANOPY_MIN_TREE_SIZE")

	setString(&cfg.Store.Path, "CANOPY_DB_PATH")

	setString(&cfg.Output.Format, "CANOPY_OUTPUT")
	setString(&cfg.Output.Path, "CANOPY_OUTPUT_PATH")
	setString(&cfg.Output.Detail, "CANOPY_DETAIL")
	if v := os.Getenv("CANOPY_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Output.Pretty = b
		}
	}
	setString(&cfg.Output.WebhookURL, "CANOPY_WEBHOOK_URL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

func setFloat(dst *float64, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = f
	}
}
