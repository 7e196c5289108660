// Package chunker splits policy document pages into bounded, overlapping
// text chunks and classifies them by subject.
package chunker

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"hragent/internal/document"
)

// Default splitting parameters for the policy corpus.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 150
)

// Chunk is a bounded span of document text, the unit of retrieval.
type Chunk struct {
	ID       string
	Text     string
	Source   string
	Page     int
	Category string
}

// Splitter splits page text on paragraph boundaries, packing paragraphs
// greedily up to chunkSize. Paragraphs longer than chunkSize are window-split
// with overlap characters of shared context between consecutive windows.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter creates a splitter. Non-positive sizes fall back to defaults,
// and overlap is capped below chunkSize so windowing always advances.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// Split returns the ordered chunks of one page. Every returned chunk is
// non-empty and at most chunkSize characters long; category is not set here.
func (s *Splitter) Split(page document.Page) []Chunk {
	var out []Chunk
	for _, text := range s.splitText(page.Text) {
		out = append(out, Chunk{
			ID:     HashID(text),
			Text:   text,
			Source: page.Source,
			Page:   page.Number,
		})
	}
	return out
}

func (s *Splitter) splitText(text string) []string {
	// First pass: greedy paragraph accumulation.
	var packed []string
	var buf strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(buf.String())+utf8.RuneCountInString(para) <= s.chunkSize {
			buf.WriteString(para)
			buf.WriteString(" ")
			continue
		}
		if flushed := strings.TrimSpace(buf.String()); flushed != "" {
			packed = append(packed, flushed)
		}
		buf.Reset()
		buf.WriteString(para)
		buf.WriteString(" ")
	}
	if flushed := strings.TrimSpace(buf.String()); flushed != "" {
		packed = append(packed, flushed)
	}

	// Second pass: window-split anything still over the bound (a single
	// oversized paragraph survives the first pass intact).
	var final []string
	for _, chunk := range packed {
		if utf8.RuneCountInString(chunk) <= s.chunkSize {
			final = append(final, chunk)
			continue
		}
		final = append(final, s.window(chunk)...)
	}
	return final
}

// window slices text into fixed windows of chunkSize runes, advancing by
// chunkSize-overlap per step so consecutive windows share exactly overlap
// runes. Windows that trim to nothing are dropped.
func (s *Splitter) window(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.overlap

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		w := strings.TrimSpace(string(runes[start:end]))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// HashID derives the stable content-hash identifier of a chunk text. Chunks
// with identical text collide on purpose: the hash is the dedup key.
func HashID(text string) string {
	sum := md5.Sum([]byte(text))
	return "chunk_" + hex.EncodeToString(sum[:])[:16]
}
