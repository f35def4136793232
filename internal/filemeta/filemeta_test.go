package filemeta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestHashFile(t *testing.T) {
	t.Run("deterministic for same content", func(t *testing.T) {
		a := writeTemp(t, "a.txt", []byte("hello world"))
		b := writeTemp(t, "b.txt", []byte("hello world"))

		ha, err := HashFile(a)
		require.NoError(t, err)
		hb, err := HashFile(b)
		require.NoError(t, err)

		assert.Equal(t, ha, hb)
		assert.Len(t, ha, 64) // hex-encoded SHA-256
	})

	t.Run("distinct content yields distinct digest", func(t *testing.T) {
		a := writeTemp(t, "a.txt", []byte("hello world"))
		b := writeTemp(t, "b.txt", []byte("hello worlds"))

		ha, err := HashFile(a)
		require.NoError(t, err)
		hb, err := HashFile(b)
		require.NoError(t, err)

		assert.NotEqual(t, ha, hb)
	})

	t.Run("known vector", func(t *testing.T) {
		p := writeTemp(t, "abc.bin", []byte("abc"))
		h, err := HashFile(p)
		require.NoError(t, err)
		assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", h)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := HashFile(filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})
}

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content []byte
		want    string
	}{
		{"plain text by content", "note.txt", []byte("just some plain text\n"), "text/plain"},
		{"pdf by header", "doc.pdf", []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n"), "application/pdf"},
		{"markdown text resolves by extension", "readme.md", []byte("# Title\n\nSome *markdown* prose.\n"), "text/markdown"},
		{"markdown binary resolves by extension", "readme.md", []byte{0x00, 0x01, 0x02, 0x03}, "text/markdown"},
		{"text with unknown extension stays text", "notes.log", []byte("plain lines of text\n"), "text/plain"},
		{"unknown binary", "blob.dat", []byte{0x00, 0x01, 0x02, 0x03}, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeTemp(t, tt.file, tt.content)
			got, err := DetectMIME(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := DetectMIME(filepath.Join(t.TempDir(), "nope.pdf"))
		assert.Error(t, err)
	})
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "TXT", TypeLabel("/tmp/note.txt"))
	assert.Equal(t, "PDF", TypeLabel("report.pdf"))
	assert.Equal(t, "DOCX", TypeLabel("essay.DOCX"))
	assert.Equal(t, "FILE", TypeLabel("/tmp/Makefile"))
}
