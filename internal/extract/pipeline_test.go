package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"docvault/internal/config"
	"docvault/internal/model"
	repoMocks "docvault/internal/repository/mocks"
	"docvault/internal/storage"
	storeMocks "docvault/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(repo *repoMocks.MockDocumentRepository, store *storeMocks.MockStorage) *Pipeline {
	return NewPipeline(repo, store, config.ExtractConfig{
		Workers:         1,
		QueueSize:       4,
		SummaryMaxChars: 500,
	})
}

func stubObject(data string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(data))
}

func TestPipeline_UnparseableDocumentFails(t *testing.T) {
	repo := new(repoMocks.MockDocumentRepository)
	store := new(storeMocks.MockStorage)

	store.On("Get", mock.Anything, "documents/ab12cd34_bad.pdf").
		Return(stubObject("this is not a pdf"), storage.ObjectInfo{Size: 17}, nil)
	repo.On("SetStatus", mock.Anything, "doc-1", model.StatusProcessing, "").Return(nil)
	repo.On("SetStatus", mock.Anything, "doc-1", model.StatusFailed, mock.MatchedBy(func(msg string) bool {
		return strings.HasPrefix(msg, "pdf extraction failed:")
	})).Return(nil)

	p := newTestPipeline(repo, store)
	p.Submit("doc-1", "documents/ab12cd34_bad.pdf")
	p.Close()

	repo.AssertExpectations(t)
	store.AssertExpectations(t)
	repo.AssertNotCalled(t, "SetContentAndSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_UnreadableFileFails(t *testing.T) {
	repo := new(repoMocks.MockDocumentRepository)
	store := new(storeMocks.MockStorage)

	store.On("Get", mock.Anything, "documents/missing.pdf").
		Return(nil, storage.ObjectInfo{}, errors.New("no such key"))
	repo.On("SetStatus", mock.Anything, "doc-2", model.StatusProcessing, "").Return(nil)
	repo.On("SetStatus", mock.Anything, "doc-2", model.StatusFailed, mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "read stored file") && strings.Contains(msg, "no such key")
	})).Return(nil)

	p := newTestPipeline(repo, store)
	p.Submit("doc-2", "documents/missing.pdf")
	p.Close()

	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestPipeline_AdvisoryProcessingUpdateMayBeLost(t *testing.T) {
	repo := new(repoMocks.MockDocumentRepository)
	store := new(storeMocks.MockStorage)

	// The processing transition fails, but the run continues to its
	// terminal state anyway.
	repo.On("SetStatus", mock.Anything, "doc-3", model.StatusProcessing, "").
		Return(errors.New("store busy"))
	store.On("Get", mock.Anything, "documents/x.pdf").
		Return(stubObject("not a pdf either"), storage.ObjectInfo{Size: 16}, nil)
	repo.On("SetStatus", mock.Anything, "doc-3", model.StatusFailed, mock.AnythingOfType("string")).
		Return(nil)

	p := newTestPipeline(repo, store)
	p.Submit("doc-3", "documents/x.pdf")
	p.Close()

	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestPipeline_TerminalUpdateFailureEndsRun(t *testing.T) {
	repo := new(repoMocks.MockDocumentRepository)
	store := new(storeMocks.MockStorage)

	repo.On("SetStatus", mock.Anything, "doc-4", model.StatusProcessing, "").Return(nil)
	store.On("Get", mock.Anything, "documents/y.pdf").
		Return(stubObject("garbage"), storage.ObjectInfo{Size: 7}, nil)
	// Even the failed transition not landing must not panic or retry forever.
	repo.On("SetStatus", mock.Anything, "doc-4", model.StatusFailed, mock.AnythingOfType("string")).
		Return(errors.New("store down"))

	p := newTestPipeline(repo, store)
	p.Submit("doc-4", "documents/y.pdf")
	p.Close()

	repo.AssertExpectations(t)
}

func TestExtractPDFText_RejectsGarbage(t *testing.T) {
	_, err := extractPDFText([]byte("definitely not a pdf"))
	assert.Error(t, err)
}

// pdfWithText builds a minimal one-page PDF drawing text with the standard
// Helvetica font. Cross-reference offsets are computed while writing, so the
// result is a well-formed file the parser accepts. text must not contain
// parentheses or backslashes.
func pdfWithText(text string) []byte {
	var buf bytes.Buffer
	offsets := make([]int, 6)
	obj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	obj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	obj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	obj(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	obj(5, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))

	xref := buf.Len()
	buf.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func TestExtractPDFText_ReadsGeneratedPage(t *testing.T) {
	text, err := extractPDFText(pdfWithText("Hello World"))
	require.NoError(t, err)
	assert.Contains(t, text, "Hello World")
}

func TestPipeline_CompletesExtractedDocument(t *testing.T) {
	repo := new(repoMocks.MockDocumentRepository)
	store := new(storeMocks.MockStorage)

	data := pdfWithText("quarterly totals by region")
	store.On("Get", mock.Anything, "documents/ab12cd34_q.pdf").
		Return(io.NopCloser(bytes.NewReader(data)), storage.ObjectInfo{Size: int64(len(data))}, nil)
	repo.On("SetStatus", mock.Anything, "doc-5", model.StatusProcessing, "").Return(nil)
	repo.On("SetContentAndSummary", mock.Anything, "doc-5",
		mock.MatchedBy(func(content string) bool {
			return strings.Contains(content, "quarterly totals by region")
		}),
		mock.MatchedBy(func(summary string) bool {
			return strings.Contains(summary, "quarterly totals by region")
		})).Return(nil)

	p := newTestPipeline(repo, store)
	p.Submit("doc-5", "documents/ab12cd34_q.pdf")
	p.Close()

	repo.AssertExpectations(t)
	store.AssertExpectations(t)
	repo.AssertNotCalled(t, "SetStatus", mock.Anything, "doc-5", model.StatusFailed, mock.Anything)
}

func TestPipeline_SaveFailureMarksFailed(t *testing.T) {
	repo := new(repoMocks.MockDocumentRepository)
	store := new(storeMocks.MockStorage)

	data := pdfWithText("extracted but never saved")
	store.On("Get", mock.Anything, "documents/ef56ab78_s.pdf").
		Return(io.NopCloser(bytes.NewReader(data)), storage.ObjectInfo{Size: int64(len(data))}, nil)
	repo.On("SetStatus", mock.Anything, "doc-6", model.StatusProcessing, "").Return(nil)
	repo.On("SetContentAndSummary", mock.Anything, "doc-6",
		mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return(errors.New("disk full"))
	repo.On("SetStatus", mock.Anything, "doc-6", model.StatusFailed, mock.MatchedBy(func(msg string) bool {
		return strings.HasPrefix(msg, "failed to save content:") && strings.Contains(msg, "disk full")
	})).Return(nil)

	p := newTestPipeline(repo, store)
	p.Submit("doc-6", "documents/ef56ab78_s.pdf")
	p.Close()

	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}
