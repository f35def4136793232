package repository

import (
	"context"

	"docvault/internal/model"
)

// DocumentRepository is the sole authority over document records. It exposes
// SQL-only persistence operations; no business logic lives here. Every method
// executes a single statement, so each call is atomic and safe under
// concurrent invocation against the same id.
type DocumentRepository interface {
	// Create inserts a new record with status uploading and returns the
	// stored row. The caller provides the id and timestamps.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its id, including soft-deleted rows so
	// in-flight background work can still address them.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// SetFilePath records where the file landed in managed storage and
	// refreshes updated_at. Idempotent; a missing id is a silent no-op.
	SetFilePath(ctx context.Context, id, path string) error

	// SetContentAndSummary stores the extracted text and summary and moves
	// the document to completed in one statement.
	SetContentAndSummary(ctx context.Context, id, content, summary string) error

	// SetStatus updates the lifecycle status. A non-empty procErr is stored
	// in processing_error; an empty procErr clears it.
	SetStatus(ctx context.Context, id string, status model.Status, procErr string) error

	// ListByOwner returns all non-deleted documents for a user, most recent
	// first. The ordering is a contract, not incidental.
	ListByOwner(ctx context.Context, userID string) ([]model.Document, error)

	// SoftDelete marks a document deleted by setting deleted_at. The row
	// stays addressable by id; it only disappears from listings.
	SoftDelete(ctx context.Context, id string) error
}
