// Package filemeta inspects source files before ingestion: content hashing
// and content-type classification. All functions are read-only.
package filemeta

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// TypeLabelDefault is used when a file name carries no extension.
	TypeLabelDefault = "FILE"

	mimeOctetStream = "application/octet-stream"
	mimeTextPlain   = "text/plain"
)

// Extension fallback used when header sniffing is inconclusive.
var mimeByExtension = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// HashFile computes the hex-encoded SHA-256 digest of the file at path.
// The file is streamed through the hash in sequential chunks; it is never
// loaded into memory as a whole.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read file for hashing: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DetectMIME classifies the file at path by sniffing its header bytes.
// A generic sniff result is inconclusive: application/octet-stream carries
// no information, and text/plain is what any textual format sniffs as. In
// both cases a known extension decides (txt, md, pdf, docx); unknown
// extensions keep the sniffed type.
func DetectMIME(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect mime type: %w", err)
	}

	detected := baseMIME(mt.String())
	if detected != mimeOctetStream && detected != mimeTextPlain {
		return detected, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if m, ok := mimeByExtension[ext]; ok {
		return m, nil
	}
	return detected, nil
}

// TypeLabel derives the normalized file type label: the uppercased extension
// without the leading dot, or TypeLabelDefault when there is no extension.
func TypeLabel(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return TypeLabelDefault
	}
	return strings.ToUpper(strings.TrimPrefix(ext, "."))
}

// baseMIME strips parameters such as "; charset=utf-8" that the sniffer
// appends to text types.
func baseMIME(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.TrimSpace(m)
}
