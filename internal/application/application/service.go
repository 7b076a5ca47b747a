package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/trade-docs-api/internal/domain"
	"github.com/trade-docs-api/internal/pkg/id"
)

type Service interface {
	// Decide moves a PENDING application to APPROVED or DECLINED and records
	// the reviewer's comment. The transition is exactly-once: deciding an
	// already-decided application fails with ErrInvalidState.
	Decide(ctx context.Context, applicationID, reviewerID, decision, comment string) (*domain.Application, error)
	// Modify rewrites the free-text details of the caller's own PENDING application.
	Modify(ctx context.Context, applicationID, userID, newDetails string) (*domain.Application, error)
	// List returns applications scoped by role: traders see their own,
	// DCA and ADMIN see everything. PENDING entries sort before decided ones.
	List(ctx context.Context, role domain.Role, userID string) ([]domain.Application, error)
	// ListComments returns the decision audit trail for an application.
	ListComments(ctx context.Context, applicationID string) ([]domain.ApplicationComment, error)
}

type applicationStore interface {
	Get(ctx context.Context, applicationID string) (*domain.Application, error)
	QueryByUser(ctx context.Context, userID string) ([]domain.Application, error)
	Scan(ctx context.Context) ([]domain.Application, error)
	UpdateDetails(ctx context.Context, applicationID, newDetails string) error
	Decide(ctx context.Context, applicationID string, status domain.ApplicationStatus, comment *domain.ApplicationComment) error
}

type commentStore interface {
	QueryByApplication(ctx context.Context, applicationID string) ([]domain.ApplicationComment, error)
}

type documentReader interface {
	QueryByUser(ctx context.Context, userID string) ([]domain.Document, error)
	Scan(ctx context.Context) ([]domain.Document, error)
}

type service struct {
	repo     applicationStore
	comments commentStore
	docs     documentReader
}

func NewService(repo applicationStore, comments commentStore, docs documentReader) Service {
	return &service{repo: repo, comments: comments, docs: docs}
}

// NewPending builds the PENDING application submitted for a document.
// Persistence happens in the ingest transaction, together with the document.
func NewPending(userID string, doc *domain.Document, details string) *domain.Application {
	now := time.Now().UTC()
	return &domain.Application{
		ApplicationID: id.New(),
		UserID:        userID,
		DocumentID:    doc.DocumentID,
		Details:       details,
		Status:        domain.StatusPending,
		SubmittedAt:   now,
		UpdatedAt:     now,
	}
}

func (s *service) Decide(ctx context.Context, applicationID, reviewerID, decision, comment string) (*domain.Application, error) {
	status, err := domain.ParseDecision(decision)
	if err != nil {
		return nil, err
	}
	app, err := s.repo.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.StatusPending {
		return nil, fmt.Errorf("application already decided: %w", domain.ErrInvalidState)
	}
	c := &domain.ApplicationComment{
		CommentID:     id.New(),
		ApplicationID: applicationID,
		UserID:        reviewerID,
		Comment:       comment,
		CreatedAt:     time.Now().UTC(),
	}
	// The store re-checks PENDING inside the transaction, so a concurrent
	// decision that slipped past the read above still loses cleanly.
	if err := s.repo.Decide(ctx, applicationID, status, c); err != nil {
		return nil, err
	}
	app.Status = status
	app.UpdatedAt = c.CreatedAt
	return app, nil
}

func (s *service) Modify(ctx context.Context, applicationID, userID, newDetails string) (*domain.Application, error) {
	app, err := s.repo.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.UserID != userID {
		return nil, fmt.Errorf("you can only modify your own applications: %w", domain.ErrForbidden)
	}
	if app.Status != domain.StatusPending {
		return nil, fmt.Errorf("application cannot be modified after a decision: %w", domain.ErrInvalidState)
	}
	if err := s.repo.UpdateDetails(ctx, applicationID, newDetails); err != nil {
		return nil, err
	}
	app.Details = newDetails
	app.UpdatedAt = time.Now().UTC()
	return app, nil
}

func (s *service) List(ctx context.Context, role domain.Role, userID string) ([]domain.Application, error) {
	var apps []domain.Application
	var docs []domain.Document
	var err error
	switch {
	case role.SeesAllApplications():
		if apps, err = s.repo.Scan(ctx); err != nil {
			return nil, err
		}
		docs, err = s.docs.Scan(ctx)
	case role.IsTrader():
		if apps, err = s.repo.QueryByUser(ctx, userID); err != nil {
			return nil, err
		}
		docs, err = s.docs.QueryByUser(ctx, userID)
	default:
		return nil, fmt.Errorf("role %s cannot list applications: %w", role, domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	attachDocuments(apps, docs)
	sortForListing(apps)
	return apps, nil
}

// attachDocuments inlines each application's document so listings carry the
// submitted file's metadata without a second round trip per row.
func attachDocuments(apps []domain.Application, docs []domain.Document) {
	byID := make(map[string]*domain.Document, len(docs))
	for i := range docs {
		byID[docs[i].DocumentID] = &docs[i]
	}
	for i := range apps {
		apps[i].Document = byID[apps[i].DocumentID]
	}
}

func (s *service) ListComments(ctx context.Context, applicationID string) ([]domain.ApplicationComment, error) {
	if _, err := s.repo.Get(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.comments.QueryByApplication(ctx, applicationID)
}

// sortForListing is the ordering contract for every application listing:
// PENDING entries first as a stable partition, newest submission first
// within each partition.
func sortForListing(apps []domain.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		pi := apps[i].Status == domain.StatusPending
		pj := apps[j].Status == domain.StatusPending
		if pi != pj {
			return pi
		}
		return apps[i].SubmittedAt.After(apps[j].SubmittedAt)
	})
}
