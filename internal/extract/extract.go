// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns an uploaded resume file into plain text.
// PDF, plain text, and DOCX uploads are supported; the declared MIME type
// selects the decoder, with the file extension as a fallback.
package extract

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/resume-review/pkg/types"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEText = "text/plain"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupportedType is returned for uploads that are not PDF, TXT, or DOCX.
var ErrUnsupportedType = errors.New("unsupported file type")

// SupportedExtensions lists the file extensions accepted by Text, in the
// order they are offered to users.
var SupportedExtensions = []string{".pdf", ".txt", ".docx"}

// decoder converts raw file bytes into plain text.
type decoder func(data []byte) (string, error)

var decoders = map[string]decoder{
	MIMEPDF:  pdfText,
	MIMEText: plainText,
	MIMEDocx: docxText,
}

var extensionTypes = map[string]string{
	".pdf":  MIMEPDF,
	".txt":  MIMEText,
	".docx": MIMEDocx,
}

// Text extracts the plain text of doc. A file that contains no text yields
// an empty (or whitespace-only) string and a nil error; callers decide how
// to report that with IsBlank.
func Text(doc types.Document) (string, error) {
	mediaType := MediaType(doc)
	dec, ok := decoders[mediaType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, describe(doc))
	}

	text, err := dec(doc.Data)
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", describe(doc), err)
	}
	return text, nil
}

// MediaType resolves the effective media type of doc. Parameters such as
// charset are dropped. Generic or missing types fall back to the extension.
func MediaType(doc types.Document) string {
	declared := strings.TrimSpace(doc.MIMEType)
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			declared = strings.ToLower(mt)
		}
	}
	if _, ok := decoders[declared]; ok {
		return declared
	}
	if mt, ok := extensionTypes[strings.ToLower(filepath.Ext(doc.Name))]; ok {
		return mt
	}
	return declared
}

// IsBlank reports whether text has no content after trimming whitespace.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text file is not valid UTF-8")
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

func describe(doc types.Document) string {
	switch {
	case doc.Name != "" && doc.MIMEType != "":
		return fmt.Sprintf("%s (%s)", doc.Name, doc.MIMEType)
	case doc.Name != "":
		return doc.Name
	case doc.MIMEType != "":
		return doc.MIMEType
	}
	return "upload"
}
