package rerank

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hragent/internal/llm"
	"hragent/internal/store"
)

// fakeCompleter answers scoring prompts from a text-fragment lookup table.
type fakeCompleter struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	reply   func(prompt string) (string, error)
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, _ llm.Options) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.reply(prompt)
}

func chunksWithTexts(texts ...string) []store.Chunk {
	out := make([]store.Chunk, len(texts))
	for i, t := range texts {
		out[i] = store.Chunk{ID: t, Text: t, Category: "geral"}
	}
	return out
}

func scoreByFragment(scores map[string]string) func(string) (string, error) {
	return func(prompt string) (string, error) {
		for fragment, score := range scores {
			if strings.Contains(prompt, fragment) {
				return score, nil
			}
		}
		return "0", nil
	}
}

func TestRank_OrdersByScoreDescending(t *testing.T) {
	fake := &fakeCompleter{reply: scoreByFragment(map[string]string{
		"trecho-a": "3",
		"trecho-b": "9",
		"trecho-c": "7.5",
	})}
	r := New(fake, Config{})

	ranked := r.Rank(context.Background(), "quantos dias de férias?", chunksWithTexts("trecho-a", "trecho-b", "trecho-c"))

	require.Len(t, ranked, 3)
	assert.Equal(t, "trecho-b", ranked[0].Text)
	assert.Equal(t, "trecho-c", ranked[1].Text)
	assert.Equal(t, "trecho-a", ranked[2].Text)
	assert.Equal(t, 3, fake.calls)
}

func TestRank_IsPermutationOfInput(t *testing.T) {
	fake := &fakeCompleter{reply: func(string) (string, error) { return "5", nil }}
	r := New(fake, Config{Workers: 2})

	input := chunksWithTexts("a", "b", "c", "d", "e")
	ranked := r.Rank(context.Background(), "pergunta", input)

	require.Len(t, ranked, len(input))
	seen := map[string]bool{}
	for _, c := range ranked {
		seen[c.Text] = true
	}
	assert.Len(t, seen, len(input))
}

func TestRank_TiesPreserveInputOrder(t *testing.T) {
	fake := &fakeCompleter{reply: scoreByFragment(map[string]string{
		"primeiro": "5", "segundo": "5", "terceiro": "8", "quarto": "5",
	})}
	r := New(fake, Config{Workers: 3})

	ranked := r.Rank(context.Background(), "pergunta", chunksWithTexts("primeiro", "segundo", "terceiro", "quarto"))

	require.Len(t, ranked, 4)
	assert.Equal(t, "terceiro", ranked[0].Text)
	assert.Equal(t, "primeiro", ranked[1].Text)
	assert.Equal(t, "segundo", ranked[2].Text)
	assert.Equal(t, "quarto", ranked[3].Text)
}

func TestRank_EmptyInputSkipsService(t *testing.T) {
	fake := &fakeCompleter{reply: func(string) (string, error) { return "5", nil }}
	r := New(fake, Config{})

	ranked := r.Rank(context.Background(), "pergunta", nil)

	assert.Empty(t, ranked)
	assert.Zero(t, fake.calls)
}

func TestRank_UnparseableScoreDegradesToZero(t *testing.T) {
	fake := &fakeCompleter{reply: scoreByFragment(map[string]string{
		"bom": "9",
		"mau": "não sei avaliar",
	})}
	r := New(fake, Config{})

	ranked := r.Rank(context.Background(), "pergunta", chunksWithTexts("mau", "bom"))

	require.Len(t, ranked, 2)
	assert.Equal(t, "bom", ranked[0].Text)
	assert.Equal(t, "mau", ranked[1].Text)
}

func TestRank_ServiceErrorDegradesToZero(t *testing.T) {
	fake := &fakeCompleter{reply: func(prompt string) (string, error) {
		if strings.Contains(prompt, "quebrado") {
			return "", errors.New("service unavailable")
		}
		return "6", nil
	}}
	r := New(fake, Config{})

	input := chunksWithTexts("um", "quebrado", "dois", "três", "quatro")
	ranked := r.Rank(context.Background(), "pergunta", input)

	require.Len(t, ranked, 5)
	assert.Equal(t, "quebrado", ranked[4].Text)
}

func TestRank_TruncatesSnippet(t *testing.T) {
	fake := &fakeCompleter{reply: func(string) (string, error) { return "5", nil }}
	r := New(fake, Config{SnippetChars: 10})

	long := strings.Repeat("é", 50)
	r.Rank(context.Background(), "pergunta", chunksWithTexts(long))

	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], strings.Repeat("é", 10))
	assert.NotContains(t, fake.prompts[0], strings.Repeat("é", 11))
}

func TestParseScore(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"8", 8, false},
		{" 7.5\n", 7.5, false},
		{"15", 10, false},
		{"-3", 0, false},
		{"oito", 0, true},
		{"8/10", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseScore(tc.in)
			if tc.wantErr {
				var perr *ScoreParseError
				require.ErrorAs(t, err, &perr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
