// Package extract converts source documents into plain text.
package extract

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/askbase/askbase/internal/domain"
)

// Text reads the file at path and returns its extracted plain text,
// dispatching on the file extension. Unsupported formats, unreadable files,
// and empty extraction results all return a typed DomainError; callers never
// see a raw parser failure.
func Text(path string) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = pdfText(path)
	case ".docx":
		text, err = docxText(path)
	case ".txt", ".md":
		text, err = plainText(path)
	default:
		return "", domain.ErrUnsupportedFormat
	}

	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeExtraction, "extraction failed", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrNoTextExtracted
	}

	return text, nil
}

func pdfText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func plainText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
