package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	applifecycle "github.com/trade-docs-api/internal/application/application"
	"github.com/trade-docs-api/internal/domain"
	"github.com/trade-docs-api/internal/pkg/id"
)

// presignTTL bounds how long a generated download link stays valid.
const presignTTL = 15 * time.Minute

// IngestInput carries the multipart upload fields for a new submission.
type IngestInput struct {
	Reader       io.Reader
	Filename     string
	ContentType  string
	Name         string
	Description  string
	DocumentType string
	UserID       string
}

// FileView is the flattened listing row the portal dashboard consumes:
// document metadata joined with its application status.
type FileView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	URL         string `json:"url"`
}

type Service interface {
	// Ingest uploads the file to the blob store, then persists the document
	// and its PENDING application as one transactional unit. A storage
	// failure aborts before any row is written; a store failure rolls the
	// blob back.
	Ingest(ctx context.Context, input IngestInput) (*domain.Document, *domain.Application, error)
	// List returns the file listing scoped by role, newest first.
	List(ctx context.Context, role domain.Role, userID string) ([]FileView, error)
	// DownloadURL returns a time-limited presigned link for a document.
	DownloadURL(ctx context.Context, documentID, requesterID string, role domain.Role) (string, error)
}

type documentStore interface {
	PutWithApplication(ctx context.Context, d *domain.Document, a *domain.Application) error
	Get(ctx context.Context, documentID string) (*domain.Document, error)
	QueryByUser(ctx context.Context, userID string) ([]domain.Document, error)
	Scan(ctx context.Context) ([]domain.Document, error)
}

type applicationReader interface {
	QueryByUser(ctx context.Context, userID string) ([]domain.Application, error)
	Scan(ctx context.Context) ([]domain.Application, error)
}

type blobStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	docs  documentStore
	apps  applicationReader
	blobs blobStore
}

func NewService(docs documentStore, apps applicationReader, blobs blobStore) Service {
	return &service{docs: docs, apps: apps, blobs: blobs}
}

func (s *service) Ingest(ctx context.Context, input IngestInput) (*domain.Document, *domain.Application, error) {
	if input.Reader == nil || input.Name == "" || input.Description == "" || input.DocumentType == "" {
		return nil, nil, fmt.Errorf("file, name, description and document type are required: %w", domain.ErrValidation)
	}
	docType, err := domain.ParseDocumentType(input.DocumentType)
	if err != nil {
		return nil, nil, err
	}

	docID := id.New()
	key := fmt.Sprintf("documents/%s/%s-%s", input.UserID, docID, sanitizeFilename(input.Filename))
	url, err := s.blobs.Upload(ctx, key, input.Reader, input.ContentType)
	if err != nil {
		return nil, nil, fmt.Errorf("store uploaded file: %w", domain.ErrDependency)
	}

	doc := &domain.Document{
		DocumentID:  docID,
		UserID:      input.UserID,
		Name:        input.Name,
		Description: input.Description,
		Type:        docType,
		ObjectKey:   key,
		URL:         url,
		CreatedAt:   time.Now().UTC(),
	}
	app := applifecycle.NewPending(input.UserID, doc, input.Description)

	if err := s.docs.PutWithApplication(ctx, doc, app); err != nil {
		// The blob is already in S3; remove it so a failed ingest leaves
		// nothing behind.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			slog.Warn("could not roll back uploaded blob", "key", key, "err", delErr)
		}
		return nil, nil, err
	}
	return doc, app, nil
}

func (s *service) List(ctx context.Context, role domain.Role, userID string) ([]FileView, error) {
	var docs []domain.Document
	var apps []domain.Application
	var err error
	if role.SeesAllApplications() {
		if docs, err = s.docs.Scan(ctx); err != nil {
			return nil, err
		}
		apps, err = s.apps.Scan(ctx)
	} else {
		if docs, err = s.docs.QueryByUser(ctx, userID); err != nil {
			return nil, err
		}
		apps, err = s.apps.QueryByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	statusByDoc := make(map[string]domain.ApplicationStatus, len(apps))
	for _, a := range apps {
		statusByDoc[a.DocumentID] = a.Status
	}

	// Scan and GSI queries return items in no particular order, so the
	// newest-first contract needs an explicit sort.
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].DocumentID > docs[j].DocumentID
	})

	views := make([]FileView, 0, len(docs))
	for _, d := range docs {
		status, ok := statusByDoc[d.DocumentID]
		if !ok {
			status = domain.StatusPending
		}
		views = append(views, FileView{
			Name:        d.Name,
			Description: d.Description,
			Type:        string(d.Type),
			Category:    string(status),
			Date:        d.CreatedAt.Format("2006-01-02"),
			URL:         d.URL,
		})
	}
	return views, nil
}

func (s *service) DownloadURL(ctx context.Context, documentID, requesterID string, role domain.Role) (string, error) {
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return "", err
	}
	if !role.SeesAllApplications() && doc.UserID != requesterID {
		return "", fmt.Errorf("you can only access your own documents: %w", domain.ErrForbidden)
	}
	return s.blobs.PresignedURL(ctx, doc.ObjectKey, presignTTL)
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}
