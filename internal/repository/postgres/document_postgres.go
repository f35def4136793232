package postgres

import (
	"context"
	"database/sql"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of
// repository.DocumentRepository over database/sql with parameterized queries.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `
	id, user_id, workspace_id, title, file_name, file_type, mime_type,
	file_path, file_size_bytes, content, summary, status, processing_error,
	created_at, updated_at, deleted_at`

// Create inserts a new document row with status uploading and returns the
// stored record. A violated user_id foreign key surfaces as a plain error.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (
			id, user_id, workspace_id, title, file_name, file_type,
			mime_type, file_size_bytes, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'uploading', $9, $9)
		RETURNING ` + documentColumns

	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.UserID,
		nullString(doc.WorkspaceID),
		doc.Title,
		doc.FileName,
		doc.FileType,
		doc.MIMEType,
		doc.FileSizeBytes,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by id, soft-deleted rows included.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// SetFilePath records the managed storage location. The statement matches
// zero rows when the id is unknown, and that is deliberately not an error.
func (r *DocumentPostgres) SetFilePath(ctx context.Context, id, path string) error {
	const q = `UPDATE documents SET file_path = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, path)
	return err
}

// SetContentAndSummary atomically stores extraction output and completes the
// document in a single UPDATE.
func (r *DocumentPostgres) SetContentAndSummary(ctx context.Context, id, content, summary string) error {
	const q = `
		UPDATE documents
		SET content = $2, summary = $3, status = 'completed', updated_at = now()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, content, summary)
	return err
}

// SetStatus updates the lifecycle status and processing_error together.
func (r *DocumentPostgres) SetStatus(ctx context.Context, id string, status model.Status, procErr string) error {
	const q = `
		UPDATE documents
		SET status = $2, processing_error = $3, updated_at = now()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, string(status), nullString(procErr))
	return err
}

// ListByOwner returns the owner's live documents, most recent first.
func (r *DocumentPostgres) ListByOwner(ctx context.Context, userID string) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// SoftDelete stamps deleted_at; already-deleted rows are left untouched.
func (r *DocumentPostgres) SoftDelete(ctx context.Context, id string) error {
	const q = `
		UPDATE documents
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d           model.Document
		workspaceID sql.NullString
		filePath    sql.NullString
		content     sql.NullString
		summary     sql.NullString
		procErr     sql.NullString
		deletedAt   sql.NullTime
	)
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&workspaceID,
		&d.Title,
		&d.FileName,
		&d.FileType,
		&d.MIMEType,
		&filePath,
		&d.FileSizeBytes,
		&content,
		&summary,
		&d.Status,
		&procErr,
		&d.CreatedAt,
		&d.UpdatedAt,
		&deletedAt,
	); err != nil {
		return nil, err
	}
	d.WorkspaceID = workspaceID.String
	d.FilePath = filePath.String
	d.Content = content.String
	d.Summary = summary.String
	d.ProcessingError = procErr.String
	if deletedAt.Valid {
		t := deletedAt.Time
		d.DeletedAt = &t
	}
	return &d, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
