package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const htmlContentType = "text/html; charset=utf-8"

// ArchiveMetadata describes a stored verification report
type ArchiveMetadata struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	ArchivedAt  time.Time `json:"archivedAt"`
}

// ArchiveService keeps rendered verification reports in the configured driver
type ArchiveService struct {
	Driver StorageDriver
	now    func() time.Time
}

func NewArchiveService(driver StorageDriver) *ArchiveService {
	return &ArchiveService{Driver: driver, now: time.Now}
}

// ArchiveReport stores a rendered HTML report. name is the download filename
// and is kept only as metadata; the key is a fresh UUID.
func (s *ArchiveService) ArchiveReport(ctx context.Context, name, html string) (*ArchiveMetadata, error) {
	id := uuid.New()
	key := id.String() + ".html"

	if err := s.Driver.Save(ctx, key, strings.NewReader(html), htmlContentType); err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	url, err := s.Driver.URL(ctx, key, 0)
	if err != nil {
		if delErr := s.Driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to clean up orphaned report", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to generate URL: %w", err)
	}

	metadata := &ArchiveMetadata{
		ID:          id,
		Name:        name,
		Key:         key,
		URL:         url,
		Size:        int64(len(html)),
		ContentType: htmlContentType,
		ArchivedAt:  s.now().UTC(),
	}
	slog.InfoContext(ctx, "verification report archived", "id", id, "key", key, "name", name)
	return metadata, nil
}

// Open streams an archived report and its content type
func (s *ArchiveService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.Driver.Open(ctx, key)
}
