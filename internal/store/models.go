package store

// Chunk is a persisted index entry: the chunk text plus its source metadata.
// The ID is a content hash, so identical texts collapse to one entry.
type Chunk struct {
	ID       string
	Text     string
	Source   string
	Page     int
	Category string
}

// SearchResult is a chunk with its distance to the query vector.
// Smaller distance means more similar.
type SearchResult struct {
	Chunk    Chunk
	Distance float64
}
