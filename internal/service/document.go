package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docvault/internal/filemeta"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

var (
	ErrIDRequired     = errors.New("id is required")
	ErrOwnerRequired  = errors.New("owner id is required")
	ErrNotFound       = errors.New("document not found")
	ErrSourceNotFound = errors.New("source file does not exist")
)

// hashPrefixLen is how many hex characters of the content hash prefix the
// destination filename. Identical content re-uploaded under the same name
// lands on the same key; different content under the same name does not
// collide.
const hashPrefixLen = 8

// IngestResult is what a successful ingestion hands back to the caller. The
// content hash is exposed for consumer-side deduplication, audit or display.
type IngestResult struct {
	Document *model.Document `json:"document"`
	FileHash string          `json:"file_hash"`
}

// Extractor receives fire-and-forget extraction work. The submitting call
// never waits for the outcome; results land in the document repository.
type Extractor interface {
	Submit(docID, key string)
}

// DocumentService defines the ingestion and retrieval use cases.
type DocumentService interface {
	// Ingest validates and hashes the source file, copies it into managed
	// storage under a collision-resistant name, records it, and - for PDFs -
	// hands off to background extraction. It returns as soon as the record's
	// file path is written, regardless of extraction outcome.
	Ingest(ctx context.Context, userID, sourcePath string) (*IngestResult, error)

	// ListByOwner returns the owner's live documents, most recent first.
	ListByOwner(ctx context.Context, userID string) ([]model.Document, error)

	// Get returns a single document by id.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Delete soft-deletes a document; the stored file stays in place for any
	// still-running background work.
	Delete(ctx context.Context, id string) error
}

type documentService struct {
	repo      repository.DocumentRepository
	store     storage.Storage
	extractor Extractor
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(repo repository.DocumentRepository, store storage.Storage, extractor Extractor) DocumentService {
	return &documentService{repo: repo, store: store, extractor: extractor}
}

func (s *documentService) Ingest(ctx context.Context, userID, sourcePath string) (*IngestResult, error) {
	if userID == "" {
		return nil, ErrOwnerRequired
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSourceNotFound
		}
		return nil, fmt.Errorf("stat source file: %w", err)
	}

	fileName := filepath.Base(sourcePath)
	mimeType, err := filemeta.DetectMIME(sourcePath)
	if err != nil {
		return nil, err
	}
	fileType := filemeta.TypeLabel(sourcePath)

	fileHash, err := filemeta.HashFile(sourcePath)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("documents/%s_%s", fileHash[:hashPrefixLen], fileName)

	src, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer src.Close()

	if _, err := s.store.Put(ctx, key, src, storage.PutOptions{
		Size:        info.Size(),
		ContentType: mimeType,
		Metadata:    map[string]string{"original-filename": fileName},
	}); err != nil {
		return nil, fmt.Errorf("copy to managed storage: %w", err)
	}

	doc := &model.Document{
		ID:            uuid.New().String(),
		UserID:        userID,
		Title:         fileName,
		FileName:      fileName,
		FileType:      fileType,
		MIMEType:      mimeType,
		FileSizeBytes: info.Size(),
		CreatedAt:     time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Compensating delete so a failed creation leaves no orphan behind.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if err := s.repo.SetFilePath(ctx, stored.ID, key); err != nil {
		return nil, fmt.Errorf("record file path: %w", err)
	}
	stored.FilePath = key

	if mimeType == "application/pdf" || fileType == "PDF" {
		s.extractor.Submit(stored.ID, key)
	}

	return &IngestResult{Document: stored, FileHash: fileHash}, nil
}

// ListByOwner returns documents without exposing repository types.
func (s *documentService) ListByOwner(ctx context.Context, userID string) ([]model.Document, error) {
	if userID == "" {
		return nil, ErrOwnerRequired
	}
	return s.repo.ListByOwner(ctx, userID)
}

// Get returns a document by id.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Delete soft-deletes the record. The stored bytes are kept: in-flight
// extraction must still be able to read them, and listings already exclude
// the row.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}
