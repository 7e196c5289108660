// Package rerank re-scores retrieved chunks against the question with a
// generative model, so the best-grounded chunks rise before context assembly.
package rerank

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"hragent/internal/llm"
	"hragent/internal/logger"
	"hragent/internal/store"
)

// Default scoring parameters.
const (
	DefaultWorkers      = 4
	DefaultSnippetChars = 500
	DefaultTimeout      = 30 * time.Second

	scoreMaxTokens = 5
)

const scorePrompt = `Você é um especialista em políticas internas de RH.

Pergunta do usuário:
%s

Trecho do documento:
%s

Avalie a relevância desse trecho para responder a pergunta.
Responda apenas com um número de 0 a 10.`

// Completer is the generative-scoring call the reranker depends on.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts llm.Options) (string, error)
}

// Config tunes the reranker.
type Config struct {
	// Workers bounds how many scoring calls run concurrently.
	Workers int
	// SnippetChars caps how much chunk text enters the scoring prompt.
	SnippetChars int
	// Timeout applies per scoring call.
	Timeout time.Duration
}

// Reranker scores candidates in [0,10] and orders them best first.
type Reranker struct {
	llm          Completer
	workers      int
	snippetChars int
	timeout      time.Duration
}

// New creates a reranker backed by the given completion client.
func New(c Completer, cfg Config) *Reranker {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.SnippetChars <= 0 {
		cfg.SnippetChars = DefaultSnippetChars
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Reranker{
		llm:          c,
		workers:      cfg.Workers,
		snippetChars: cfg.SnippetChars,
		timeout:      cfg.Timeout,
	}
}

// Rank returns the candidates reordered by descending relevance score.
// The result is always a permutation of the input: a failed or unparseable
// scoring call degrades that candidate to score 0 and never aborts the rank.
// Ties keep the original candidate order.
func (r *Reranker) Rank(ctx context.Context, query string, candidates []store.Chunk) []store.Chunk {
	if len(candidates) == 0 {
		return nil
	}

	scores := make([]float64, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, cand := range candidates {
		g.Go(func() error {
			scores[i] = r.score(gctx, query, cand)
			return nil
		})
	}
	// Workers never return errors; degraded scores already default to 0.
	_ = g.Wait()

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranked := make([]store.Chunk, len(candidates))
	for pos, idx := range order {
		ranked[pos] = candidates[idx]
	}
	return ranked
}

func (r *Reranker) score(ctx context.Context, query string, cand store.Chunk) float64 {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prompt := fmt.Sprintf(scorePrompt, query, snippet(cand.Text, r.snippetChars))
	raw, err := r.llm.Complete(callCtx, prompt, llm.Options{Temperature: 0, MaxTokens: scoreMaxTokens})
	if err != nil {
		logger.Warn("rerank: scoring %s failed: %v", cand.ID, err)
		return 0
	}

	score, err := ParseScore(raw)
	if err != nil {
		logger.Warn("rerank: %v", err)
		return 0
	}
	return score
}

func snippet(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// A ScoreParseError reports a scoring response that is not a number.
type ScoreParseError struct {
	Raw string
}

func (e *ScoreParseError) Error() string {
	return fmt.Sprintf("unparseable relevance score %q", e.Raw)
}

// ParseScore parses the scoring response as a float clamped to [0,10].
// The zero-fallback on failure is the caller's policy, not this function's.
func ParseScore(text string) (float64, error) {
	score, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, &ScoreParseError{Raw: text}
	}
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score, nil
}
