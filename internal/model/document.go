package model

import "time"

// Status is the lifecycle state of a document.
// Transitions move forward only: uploading -> processing -> completed|failed.
// completed and failed are terminal; nothing in this service leaves them.
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Valid reports whether s is one of the four lifecycle values.
func (s Status) Valid() bool {
	switch s {
	case StatusUploading, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Document represents an ingested file and its derived content.
// This is a pure domain model with no database-specific dependencies or tags.
// Nullable text columns map to the empty string when absent; DeletedAt is nil
// for live rows.
type Document struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	WorkspaceID     string     `json:"workspace_id,omitempty"`
	Title           string     `json:"title"`
	FileName        string     `json:"file_name"`
	FileType        string     `json:"file_type"`
	MIMEType        string     `json:"mime_type"`
	FilePath        string     `json:"file_path,omitempty"`
	FileSizeBytes   int64      `json:"file_size_bytes"`
	Content         string     `json:"content,omitempty"`
	Summary         string     `json:"summary,omitempty"`
	Status          Status     `json:"status"`
	ProcessingError string     `json:"processing_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}
