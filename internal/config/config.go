package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds connection details for the OpenAI-compatible API used
// for both embeddings and chat completions.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	EmbedModel  string `yaml:"embed_model"`
	ChatModel   string `yaml:"chat_model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChunkerConfig configures how document pages are split into chunks.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// RetrievalConfig configures similarity search and context assembly.
type RetrievalConfig struct {
	K             int `yaml:"k"`
	ContextChunks int `yaml:"context_chunks"`
	BatchSize     int `yaml:"batch_size"`
}

// RerankConfig configures the LLM reranking stage.
type RerankConfig struct {
	Workers      int `yaml:"workers"`
	SnippetChars int `yaml:"snippet_chars"`
	TimeoutSecs  int `yaml:"timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Rerank    RerankConfig    `yaml:"rerank"`
	DBPath    string          `yaml:"db_path"`
	Documents []string        `yaml:"documents"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/hragent/config.yaml.
// If neither exists, defaults are returned without writing anything.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	return Default(), "", nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hragent", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	cfg := &AppConfig{
		Documents: []string{
			"documentos/politica_ferias.pdf",
			"documentos/politica_home_office.pdf",
			"documentos/codigo_conduta.pdf",
		},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.APIKeyEnv == "" {
		cfg.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.OpenAI.EmbedModel == "" {
		cfg.OpenAI.EmbedModel = "text-embedding-3-small"
	}
	if cfg.OpenAI.ChatModel == "" {
		cfg.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if cfg.OpenAI.TimeoutSecs == 0 {
		cfg.OpenAI.TimeoutSecs = 60
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 800
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = 150
	}
	if cfg.Retrieval.K == 0 {
		cfg.Retrieval.K = 8
	}
	if cfg.Retrieval.ContextChunks == 0 {
		cfg.Retrieval.ContextChunks = 4
	}
	if cfg.Retrieval.BatchSize == 0 {
		cfg.Retrieval.BatchSize = 50
	}
	if cfg.Rerank.Workers == 0 {
		cfg.Rerank.Workers = 4
	}
	if cfg.Rerank.SnippetChars == 0 {
		cfg.Rerank.SnippetChars = 500
	}
	if cfg.Rerank.TimeoutSecs == 0 {
		cfg.Rerank.TimeoutSecs = 30
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(".hragent", "index.db")
	}
}
