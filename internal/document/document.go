// Package document loads the policy corpus as page-oriented plain text.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dslipak/pdf"

	"hragent/internal/logger"
)

// Page is one page of a source document. Pages are the unit handed to the
// chunker; they are discarded after chunking.
type Page struct {
	Source string
	Number int
	Text   string
}

// Load reads every configured source path and returns one Page per non-empty
// page. A missing file is skipped with a warning on stderr; an empty result
// is left to the caller to treat as fatal.
func Load(paths []string) ([]Page, error) {
	var pages []Page
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "aviso: arquivo não encontrado: %s\n", path)
			continue
		}

		loaded, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		logger.Debug("loaded %s: %d pages", path, len(loaded))
		pages = append(pages, loaded...)
	}
	return pages, nil
}

func loadFile(path string) ([]Page, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDF(path)
	default:
		return loadText(path)
	}
}

func loadPDF(path string) ([]Page, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var pages []Page
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, Page{Source: path, Number: i, Text: text})
	}
	return pages, nil
}

// loadText reads a plain-text or markdown source as a single page.
func loadText(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	return []Page{{Source: path, Number: 1, Text: text}}, nil
}
