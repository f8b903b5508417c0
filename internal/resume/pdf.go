package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"go.uber.org/zap"
)

// Extractor turns a stored resume blob into plain text.
type Extractor struct {
	parser *pdf.PDFParser
	logger *zap.Logger
}

// NewExtractor builds a PDF text extractor. The parser is configured to
// return the whole document as one continuous string rather than per page.
func NewExtractor(ctx context.Context, logger *zap.Logger) (*Extractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("create pdf parser: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{parser: p, logger: logger}, nil
}

// ExtractText parses the PDF bytes and returns the concatenated text content.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("resume blob is empty")
	}

	docs, err := e.parser.Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	var builder strings.Builder
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		content := strings.TrimSpace(doc.Content)
		if content == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(content)
	}

	text := builder.String()
	if text == "" {
		return "", errors.New("pdf contains no extractable text")
	}

	e.logger.Debug("pdf text extracted",
		zap.Int("bytes", len(data)),
		zap.Int("characters", len(text)),
	)

	return text, nil
}
