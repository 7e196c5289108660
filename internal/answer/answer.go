// Package answer assembles the grounded prompt and produces the final reply.
package answer

import (
	"context"
	"fmt"
	"strings"

	"hragent/internal/llm"
	"hragent/internal/store"
)

// DefaultContextChunks is how many top-ranked chunks ground the answer.
const DefaultContextChunks = 4

// NotFound is the fixed reply when retrieval produced nothing to ground on.
const NotFound = "Não encontrei informações relevantes nos documentos."

const answerPrompt = `Você é um agente de RH corporativo.
Responda APENAS com base nas políticas internas abaixo.

Contexto:
%s

Pergunta:
%s`

// Completer is the generative completion call the synthesizer depends on.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts llm.Options) (string, error)
}

// Synthesizer turns ranked chunks plus a question into a grounded answer.
type Synthesizer struct {
	llm           Completer
	contextChunks int
}

// New creates a synthesizer. contextChunks caps the grounding context size;
// non-positive values fall back to the default.
func New(c Completer, contextChunks int) *Synthesizer {
	if contextChunks <= 0 {
		contextChunks = DefaultContextChunks
	}
	return &Synthesizer{llm: c, contextChunks: contextChunks}
}

// Answer generates the reply grounded in the first contextChunks entries of
// ranked. With no ranked chunks it returns the fixed not-found reply and an
// empty source list without a completion call. The returned sources are
// exactly the chunks the answer was grounded on.
func (s *Synthesizer) Answer(ctx context.Context, query string, ranked []store.Chunk) (string, []store.Chunk, error) {
	if len(ranked) == 0 {
		return NotFound, nil, nil
	}

	grounding := ranked
	if len(grounding) > s.contextChunks {
		grounding = grounding[:s.contextChunks]
	}

	texts := make([]string, len(grounding))
	for i, c := range grounding {
		texts[i] = c.Text
	}
	prompt := fmt.Sprintf(answerPrompt, strings.Join(texts, "\n\n"), query)

	reply, err := s.llm.Complete(ctx, prompt, llm.Options{Temperature: 0})
	if err != nil {
		return "", nil, fmt.Errorf("generate answer: %w", err)
	}
	return reply, grounding, nil
}
