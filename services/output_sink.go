package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DocumentKind names a document variant and forms the filename suffix.
type DocumentKind string

const (
	KindJobCostSheet DocumentKind = "job-cost-sheet"
	KindQuote        DocumentKind = "quote"
	KindJobList      DocumentKind = "job-list"
)

// Document is a fully composed PDF. Producing one has no side effects; only
// Save touches the filesystem.
type Document struct {
	Kind       DocumentKind
	Identifier string
	data       []byte
}

func newDocument(kind DocumentKind, identifier string, data []byte) *Document {
	return &Document{Kind: kind, Identifier: identifier, data: data}
}

// Bytes returns the raw PDF.
func (d *Document) Bytes() []byte {
	return d.data
}

// Filename is "{identifier}-{kind}.pdf" with every non-alphanumeric
// character of the identifier replaced by "-".
func (d *Document) Filename() string {
	return fmt.Sprintf("%s-%s.pdf", sanitizeFilename(d.Identifier), d.Kind)
}

// Save writes the PDF into dir under Filename and returns the full path.
func (d *Document) Save(dir string) (string, error) {
	path := filepath.Join(dir, d.Filename())
	if err := os.WriteFile(path, d.data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", d.Kind, err)
	}
	return path, nil
}

// Base64 returns the PDF encoded for use as a message attachment.
func (d *Document) Base64() string {
	return base64.StdEncoding.EncodeToString(d.data)
}

// sanitizeFilename replaces every character outside [A-Za-z0-9] with "-".
func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '-'
	}, s)
}
