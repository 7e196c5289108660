// Package rag composes ingestion and the per-question retrieval flow:
// similarity search, reranking, and grounded answer synthesis.
package rag

import (
	"context"
	"errors"
	"fmt"

	"hragent/internal/answer"
	"hragent/internal/chunker"
	"hragent/internal/document"
	"hragent/internal/logger"
	"hragent/internal/store"
)

// ErrNoDocuments means ingestion was required but found nothing to index.
// It is fatal: the session cannot answer anything without an index.
var ErrNoDocuments = errors.New("no policy documents found")

// Embedder produces embedding vectors for indexing and querying.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// Index is the persisted vector index.
type Index interface {
	Exists() (bool, error)
	Reset(dimension int) error
	Insert(chunks []store.Chunk, vectors [][]float32) error
	Search(queryVector []float32, k int) ([]store.SearchResult, error)
	GetMeta(key string) (string, error)
	SetMeta(key, value string) error
}

// Ranker reorders retrieved candidates by relevance to the question.
type Ranker interface {
	Rank(ctx context.Context, query string, candidates []store.Chunk) []store.Chunk
}

// Synthesizer produces the grounded answer from ranked chunks.
type Synthesizer interface {
	Answer(ctx context.Context, query string, ranked []store.Chunk) (string, []store.Chunk, error)
}

// Config tunes ingestion and retrieval.
type Config struct {
	Documents    []string
	ChunkSize    int
	ChunkOverlap int
	// BatchSize is how many chunks are embedded and inserted per batch.
	BatchSize int
	// RetrievalK is how many candidates similarity search hands to the reranker.
	RetrievalK int
}

// QueryResult is the terminal output of one question.
type QueryResult struct {
	Answer  string
	Sources []store.Chunk
}

// Stats reports what Initialize did.
type Stats struct {
	Reused bool
	Pages  int
	Chunks int
}

// Pipeline wires the session's collaborators. It owns no global state;
// everything it needs is passed in at construction.
type Pipeline struct {
	cfg         Config
	index       Index
	embedder    Embedder
	ranker      Ranker
	synthesizer Synthesizer
}

// New creates a pipeline over the given collaborators.
func New(cfg Config, index Index, embedder Embedder, ranker Ranker, synthesizer Synthesizer) *Pipeline {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = chunker.DefaultChunkSize
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = chunker.DefaultChunkOverlap
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.RetrievalK <= 0 {
		cfg.RetrievalK = 8
	}
	return &Pipeline{
		cfg:         cfg,
		index:       index,
		embedder:    embedder,
		ranker:      ranker,
		synthesizer: synthesizer,
	}
}

// Initialize prepares the vector index. A populated persisted index built
// with the current embedding model is reused as-is; otherwise the documents
// are ingested from scratch. force always rebuilds.
func (p *Pipeline) Initialize(ctx context.Context, force bool) (*Stats, error) {
	if !force {
		exists, err := p.index.Exists()
		if err != nil {
			return nil, fmt.Errorf("check index: %w", err)
		}
		if exists {
			lastModel, err := p.index.GetMeta(store.MetaEmbeddingModel)
			if err != nil {
				return nil, fmt.Errorf("check index model: %w", err)
			}
			if lastModel == p.embedder.Model() {
				logger.Debug("reusing persisted index (model %s)", lastModel)
				return &Stats{Reused: true}, nil
			}
			logger.Warn("embedding model changed from %q to %q, rebuilding", lastModel, p.embedder.Model())
		}
	}
	return p.ingest(ctx)
}

func (p *Pipeline) ingest(ctx context.Context) (*Stats, error) {
	pages, err := document.Load(p.cfg.Documents)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrNoDocuments
	}

	splitter := chunker.NewSplitter(p.cfg.ChunkSize, p.cfg.ChunkOverlap)
	var chunks []store.Chunk
	position := make(map[string]int)
	for _, page := range pages {
		for _, c := range splitter.Split(page) {
			c.Category = chunker.Classify(c.Text)
			entry := store.Chunk{
				ID:       c.ID,
				Text:     c.Text,
				Source:   c.Source,
				Page:     c.Page,
				Category: c.Category,
			}
			// Last-write dedup by content hash within one ingestion run.
			if pos, seen := position[c.ID]; seen {
				chunks[pos] = entry
				continue
			}
			position[c.ID] = len(chunks)
			chunks = append(chunks, entry)
		}
	}
	if len(chunks) == 0 {
		return nil, ErrNoDocuments
	}
	logger.Debug("ingesting %d chunks from %d pages", len(chunks), len(pages))

	// Embed and insert batch by batch. The first batch reveals the vector
	// dimension, which the index needs before any insert. A failed batch
	// aborts the whole rebuild.
	for start := 0; start < len(chunks); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}
		vectors, err := p.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		if start == 0 {
			if len(vectors) == 0 || len(vectors[0]) == 0 {
				return nil, fmt.Errorf("embedding service returned empty vectors")
			}
			if err := p.index.Reset(len(vectors[0])); err != nil {
				return nil, fmt.Errorf("reset index: %w", err)
			}
		}
		if err := p.index.Insert(batch, vectors); err != nil {
			return nil, fmt.Errorf("insert batch at %d: %w", start, err)
		}
	}

	if err := p.index.SetMeta(store.MetaEmbeddingModel, p.embedder.Model()); err != nil {
		return nil, fmt.Errorf("record embedding model: %w", err)
	}
	return &Stats{Pages: len(pages), Chunks: len(chunks)}, nil
}

// Answer runs one question through search, rerank, and synthesis. Errors are
// per-query and recoverable: the caller reports them and keeps the session
// alive for further questions.
func (p *Pipeline) Answer(ctx context.Context, query string) (QueryResult, error) {
	logger.Section("Query")
	logger.Debug("question: %q", query)

	vec, err := p.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return QueryResult{}, fmt.Errorf("embed question: %w", err)
	}

	results, err := p.index.Search(vec, p.cfg.RetrievalK)
	if err != nil {
		return QueryResult{}, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("retrieved %d candidates", len(results))
	if len(results) == 0 {
		return QueryResult{Answer: answer.NotFound}, nil
	}

	candidates := make([]store.Chunk, len(results))
	for i, r := range results {
		candidates[i] = r.Chunk
	}

	ranked := p.ranker.Rank(ctx, query, candidates)

	reply, sources, err := p.synthesizer.Answer(ctx, query, ranked)
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{Answer: reply, Sources: sources}, nil
}

// Search embeds the question and returns the nearest chunks by cosine
// distance, without reranking or synthesis.
func (p *Pipeline) Search(ctx context.Context, query string, k int) ([]store.SearchResult, error) {
	if k <= 0 {
		k = p.cfg.RetrievalK
	}
	vec, err := p.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	results, err := p.index.Search(vec, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return results, nil
}
