package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hragent/internal/answer"
	"hragent/internal/config"
	"hragent/internal/embedder"
	"hragent/internal/llm"
	"hragent/internal/rerank"
	"hragent/internal/store"
)

// FromConfig assembles a ready-to-use pipeline from the application config.
// The returned store must be closed by the caller when the session ends.
func FromConfig(cfg *config.AppConfig) (*Pipeline, *store.SQLiteStore, error) {
	apiKey := os.Getenv(cfg.OpenAI.APIKeyEnv)
	if apiKey == "" {
		return nil, nil, fmt.Errorf("variável de ambiente %s não definida", cfg.OpenAI.APIKeyEnv)
	}

	timeout := time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second

	emb, err := embedder.New(embedder.Config{
		BaseURL: cfg.OpenAI.BaseURL,
		APIKey:  apiKey,
		Model:   cfg.OpenAI.EmbedModel,
		Timeout: timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	chat, err := llm.New(llm.Config{
		BaseURL: cfg.OpenAI.BaseURL,
		APIKey:  apiKey,
		Model:   cfg.OpenAI.ChatModel,
		Timeout: timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	ranker := rerank.New(chat, rerank.Config{
		Workers:      cfg.Rerank.Workers,
		SnippetChars: cfg.Rerank.SnippetChars,
		Timeout:      time.Duration(cfg.Rerank.TimeoutSecs) * time.Second,
	})
	synth := answer.New(chat, cfg.Retrieval.ContextChunks)

	p := New(Config{
		Documents:    cfg.Documents,
		ChunkSize:    cfg.Chunker.ChunkSize,
		ChunkOverlap: cfg.Chunker.ChunkOverlap,
		BatchSize:    cfg.Retrieval.BatchSize,
		RetrievalK:   cfg.Retrieval.K,
	}, st, emb, ranker, synth)

	return p, st, nil
}
