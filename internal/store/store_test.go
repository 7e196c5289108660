package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testChunk(id, text, category string) Chunk {
	return Chunk{ID: id, Text: text, Source: "documentos/politica_ferias.pdf", Page: 1, Category: category}
}

func TestExists_EmptyIndex(t *testing.T) {
	s := openTestStore(t)

	exists, err := s.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRebuildAndSearch(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Reset(3))

	chunks := []Chunk{
		testChunk("chunk_a", "férias de trinta dias", "ferias"),
		testChunk("chunk_b", "home office duas vezes por semana", "home_office"),
		testChunk("chunk_c", "código de conduta", "conduta"),
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	require.NoError(t, s.Insert(chunks, vectors))

	exists, err := s.Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	results, err := s.Search([]float32{0.9, 0.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "chunk_a", results[0].Chunk.ID)
	assert.Equal(t, "ferias", results[0].Chunk.Category)
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)
}

func TestSearch_EmptyIndexReturnsNothing(t *testing.T) {
	s := openTestStore(t)

	results, err := s.Search([]float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestInsert_DuplicateIDReplaces(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Reset(2))

	first := testChunk("chunk_dup", "texto original", "geral")
	require.NoError(t, s.Insert([]Chunk{first}, [][]float32{{1, 0}}))

	second := testChunk("chunk_dup", "texto atualizado", "ferias")
	require.NoError(t, s.Insert([]Chunk{second}, [][]float32{{0, 1}}))

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err := s.Search([]float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "texto atualizado", results[0].Chunk.Text)
}

func TestReset_ClearsPreviousIndex(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Reset(2))
	require.NoError(t, s.Insert([]Chunk{testChunk("chunk_x", "antigo", "geral")}, [][]float32{{1, 0}}))

	// Rebuild with a different dimension.
	require.NoError(t, s.Reset(4))

	exists, err := s.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	dim, err := s.GetMeta(MetaEmbeddingDim)
	require.NoError(t, err)
	assert.Equal(t, "4", dim)
}

func TestMetaRoundTrip(t *testing.T) {
	s := openTestStore(t)

	v, err := s.GetMeta(MetaEmbeddingModel)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.SetMeta(MetaEmbeddingModel, "text-embedding-3-small"))
	require.NoError(t, s.SetMeta(MetaEmbeddingModel, "text-embedding-3-large"))

	v, err = s.GetMeta(MetaEmbeddingModel)
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-large", v)
}
