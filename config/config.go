package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the agent.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Qdrant   QdrantConfig   `yaml:"qdrant"`
	Retrieve RetrieveConfig `yaml:"retrieve"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Essence  EssenceConfig  `yaml:"essence"`
	Logging  LoggingConfig  `yaml:"logging"`
	DataDir  string         `yaml:"data_dir"` // local store location when Qdrant is not configured
}

// TelegramConfig holds transport configuration.
type TelegramConfig struct {
	TokenEnv string `yaml:"token_env"` // Environment variable for the bot token
}

// OpenAIConfig holds embedding and generation configuration.
type OpenAIConfig struct {
	APIKeyEnv          string  `yaml:"api_key_env"`
	BaseURL            string  `yaml:"base_url"`
	EmbedModel         string  `yaml:"embed_model"` // e.g. "text-embedding-3-small"
	ChatModel          string  `yaml:"chat_model"`  // e.g. "gpt-4o-mini"
	Dimension          int     `yaml:"dimension"`
	ReplyTemperature   float64 `yaml:"reply_temperature"`
	EssenceTemperature float64 `yaml:"essence_temperature"`
}

// QdrantConfig holds vector database configuration. When URLEnv resolves
// to an empty value the local bbolt store under DataDir is used instead.
type QdrantConfig struct {
	URLEnv          string `yaml:"url_env"`
	APIKeyEnv       string `yaml:"api_key_env"`
	BooksCollection string `yaml:"books_collection"`
	ChatCollection  string `yaml:"chat_collection"`
}

// RetrieveConfig holds retrieval and blending configuration.
type RetrieveConfig struct {
	Threshold   float64 `yaml:"threshold"` // minimum doc score to blend retrieval in
	DocLimit    int     `yaml:"doc_limit"`
	MemoryK     int     `yaml:"memory_k"`
	DefaultMode string  `yaml:"default_mode"` // "hy", "free" or "book"
}

// IngestConfig holds book ingestion configuration.
type IngestConfig struct {
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
	Includes     []string `yaml:"includes"`
	Excludes     []string `yaml:"excludes"`
}

// EssenceConfig holds memory aggregation configuration.
type EssenceConfig struct {
	ScrollLimit int    `yaml:"scroll_limit"`
	Schedule    string `yaml:"schedule"` // cron expression; empty disables the periodic job
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			TokenEnv: "TELEGRAM_TOKEN",
		},
		OpenAI: OpenAIConfig{
			APIKeyEnv:          "OPENAI_API_KEY",
			BaseURL:            "https://api.openai.com/v1",
			EmbedModel:         "text-embedding-3-small",
			ChatModel:          "gpt-4o-mini",
			Dimension:          1536,
			ReplyTemperature:   0.8,
			EssenceTemperature: 0.5,
		},
		Qdrant: QdrantConfig{
			URLEnv:          "QDRANT_URL",
			APIKeyEnv:       "QDRANT_API_KEY",
			BooksCollection: "aria_books",
			ChatCollection:  "aria_chat_history",
		},
		Retrieve: RetrieveConfig{
			Threshold:   0.25,
			DocLimit:    4,
			MemoryK:     3,
			DefaultMode: "hy",
		},
		Ingest: IngestConfig{
			ChunkSize:    1000,
			ChunkOverlap: 100,
			Includes:     []string{"**/*.txt", "**/*.md"},
			Excludes:     []string{"**/.git/**"},
		},
		Essence: EssenceConfig{
			ScrollLimit: 256,
			Schedule:    "",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		DataDir: ".aria",
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for aria.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "aria.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LocalStorePath returns the path of the local vector store database.
func (c *Config) LocalStorePath() string {
	return filepath.Join(c.DataDir, "vectors.db")
}

// TelegramToken resolves the bot token from the environment.
func (c *Config) TelegramToken() string {
	return os.Getenv(c.Telegram.TokenEnv)
}

// OpenAIKey resolves the model provider API key from the environment.
func (c *Config) OpenAIKey() string {
	return os.Getenv(c.OpenAI.APIKeyEnv)
}

// QdrantURL resolves the vector database URL from the environment.
// Empty means "use the local store".
func (c *Config) QdrantURL() string {
	return os.Getenv(c.Qdrant.URLEnv)
}

// QdrantKey resolves the vector database API key from the environment.
func (c *Config) QdrantKey() string {
	return os.Getenv(c.Qdrant.APIKeyEnv)
}
