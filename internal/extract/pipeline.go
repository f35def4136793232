// Package extract runs text extraction off the synchronous request path.
// Tasks are fire-and-forget: the ingestion call that submits one never waits
// for it, and outcomes are reported solely through the document repository.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"docvault/internal/config"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

// Task identifies one stored document to extract.
type Task struct {
	DocumentID string
	Key        string
}

// Pipeline is a bounded worker pool draining a task queue. Per-document
// updates are causally ordered because a document's task runs on a single
// worker; tasks for different documents run independently.
type Pipeline struct {
	repo       repository.DocumentRepository
	store      storage.Storage
	summaryMax int
	tasks      chan Task
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewPipeline builds a pipeline and launches its workers immediately.
func NewPipeline(repo repository.DocumentRepository, store storage.Storage, cfg config.ExtractConfig) *Pipeline {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	queue := cfg.QueueSize
	if queue <= 0 {
		queue = 16
	}
	p := &Pipeline{
		repo:       repo,
		store:      store,
		summaryMax: cfg.SummaryMaxChars,
		tasks:      make(chan Task, queue),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i + 1)
	}
	return p
}

// Submit enqueues a task. The queue is buffered; under sustained load a full
// queue makes Submit wait rather than drop work.
func (p *Pipeline) Submit(docID, key string) {
	p.tasks <- Task{DocumentID: docID, Key: key}
}

// Close stops accepting tasks and waits for in-flight work to finish.
func (p *Pipeline) Close() {
	p.closeOnce.Do(func() { close(p.tasks) })
	p.wg.Wait()
}

func (p *Pipeline) worker(id int) {
	defer p.wg.Done()
	logJSON(map[string]any{
		"level":     "info",
		"component": "extract",
		"event":     "worker_started",
		"worker_id": id,
	})
	for task := range p.tasks {
		p.process(context.Background(), task)
	}
}

// process drives one document from processing to a terminal state. Extraction
// failures never propagate anywhere except the document row itself.
func (p *Pipeline) process(ctx context.Context, task Task) {
	// Advisory transition: losing this intermediate update is non-fatal,
	// extraction proceeds regardless.
	if err := p.repo.SetStatus(ctx, task.DocumentID, model.StatusProcessing, ""); err != nil {
		logJSON(map[string]any{
			"component": "extract",
			"event":     "status_update_skipped",
			"doc_id":    task.DocumentID,
			"error":     err.Error(),
		})
	}

	text, err := p.extract(ctx, task.Key)
	if err != nil {
		p.fail(ctx, task.DocumentID, fmt.Sprintf("pdf extraction failed: %v", err))
		return
	}

	summary := Summarize(text, p.summaryMax)
	if err := p.repo.SetContentAndSummary(ctx, task.DocumentID, text, summary); err != nil {
		// Best-effort second attempt; if this fails too the run ends with
		// whatever status the store retained.
		p.fail(ctx, task.DocumentID, fmt.Sprintf("failed to save content: %v", err))
		return
	}

	logJSON(map[string]any{
		"level":         "info",
		"component":     "extract",
		"event":         "extraction_completed",
		"doc_id":        task.DocumentID,
		"content_bytes": len(text),
		"summary_bytes": len(summary),
	})
}

// extract loads the stored object and pulls plain text out of it.
func (p *Pipeline) extract(ctx context.Context, key string) (string, error) {
	rc, _, err := p.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read stored file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read stored file: %w", err)
	}
	return extractPDFText(data)
}

func (p *Pipeline) fail(ctx context.Context, docID, msg string) {
	logJSON(map[string]any{
		"component": "extract",
		"event":     "extraction_failed",
		"doc_id":    docID,
		"error":     msg,
	})
	if err := p.repo.SetStatus(ctx, docID, model.StatusFailed, msg); err != nil {
		logJSON(map[string]any{
			"component": "extract",
			"event":     "terminal_status_update_failed",
			"doc_id":    docID,
			"error":     err.Error(),
		})
	}
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "warn"
	}
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal extract log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
