package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hragent/internal/document"
)

func page(text string) document.Page {
	return document.Page{Source: "documentos/politica_ferias.pdf", Number: 1, Text: text}
}

func TestSplit_ParagraphAccumulation(t *testing.T) {
	s := NewSplitter(50, 10)
	text := "primeiro parágrafo\n\nsegundo parágrafo\n\nterceiro"

	chunks := s.Split(page(text))
	require.NotEmpty(t, chunks)

	// Everything fits in one chunk of at most 50 characters.
	require.Len(t, chunks, 1)
	assert.Equal(t, "primeiro parágrafo segundo parágrafo terceiro", chunks[0].Text)
}

func TestSplit_FlushesWhenBoundExceeded(t *testing.T) {
	s := NewSplitter(20, 5)
	text := "aaaaaaaaaa\n\nbbbbbbbbbb\n\ncccccccccc"

	chunks := s.Split(page(text))
	require.Len(t, chunks, 3)
	assert.Equal(t, "aaaaaaaaaa", chunks[0].Text)
	assert.Equal(t, "bbbbbbbbbb", chunks[1].Text)
	assert.Equal(t, "cccccccccc", chunks[2].Text)
}

func TestSplit_LengthBoundHolds(t *testing.T) {
	s := NewSplitter(DefaultChunkSize, DefaultChunkOverlap)
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString(strings.Repeat("política de férias e conduta ", 10))
		sb.WriteString("\n\n")
	}
	// One giant paragraph at the end to force window splitting.
	sb.WriteString(strings.Repeat("x", 3000))

	for _, c := range s.Split(page(sb.String())) {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), DefaultChunkSize)
		assert.NotEmpty(t, strings.TrimSpace(c.Text))
	}
}

func TestSplit_WindowOverlapExact(t *testing.T) {
	s := NewSplitter(100, 30)
	// A single oversized paragraph with no whitespace, so trimming is a no-op
	// and window boundaries are byte-exact.
	long := strings.Repeat("abcdefghij", 35) // 350 chars

	chunks := s.Split(page(long))
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		if len(prev) < 100 {
			// Only full windows carry the exact overlap guarantee.
			continue
		}
		tail := string(prev[len(prev)-30:])
		assert.True(t, strings.HasPrefix(chunks[i].Text, tail),
			"window %d should start with the 30-rune tail of window %d", i, i-1)
	}
}

func TestSplit_EmptyAndWhitespaceDropped(t *testing.T) {
	s := NewSplitter(100, 20)
	chunks := s.Split(page("\n\n   \n\n\t\n\n"))
	assert.Empty(t, chunks)
}

func TestSplit_PreservesSourceMetadata(t *testing.T) {
	s := NewSplitter(100, 20)
	p := document.Page{Source: "documentos/codigo_conduta.pdf", Number: 3, Text: "regras de conduta"}

	chunks := s.Split(p)
	require.Len(t, chunks, 1)
	assert.Equal(t, p.Source, chunks[0].Source)
	assert.Equal(t, 3, chunks[0].Page)
}

func TestHashID_StableAndPrefixed(t *testing.T) {
	a := HashID("texto de política")
	b := HashID("texto de política")
	c := HashID("outro texto")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "chunk_"))
	assert.Len(t, a, len("chunk_")+16)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"ferias accented", "O período de férias é de 30 dias.", CategoryFerias},
		{"ferias unaccented", "Solicitação de ferias antecipadas", CategoryFerias},
		{"home office", "Política de home office da empresa", CategoryHomeOffice},
		{"remoto", "Trabalho remoto é permitido duas vezes por semana", CategoryHomeOffice},
		{"teletrabalho", "Regras de TELETRABALHO", CategoryHomeOffice},
		{"conduta", "Código de conduta profissional", CategoryConduta},
		{"etica accented", "Comitê de ética", CategoryConduta},
		{"etica unaccented", "comissao de etica", CategoryConduta},
		{"geral", "Benefícios de vale transporte", CategoryGeral},
		{"empty", "", CategoryGeral},
		// First rule wins when multiple keywords appear.
		{"ferias beats conduta", "Conduta durante as férias", CategoryFerias},
		{"home office beats conduta", "Conduta no home office", CategoryHomeOffice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.text))
			// Deterministic: same input, same output.
			assert.Equal(t, Classify(tc.text), Classify(tc.text))
		})
	}
}
