package domain

import (
	"fmt"
	"time"
)

// ApplicationStatus is the review state machine: PENDING is initial,
// APPROVED and DECLINED are terminal with no outgoing transitions.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusDeclined ApplicationStatus = "DECLINED"
)

// ParseDecision validates a reviewer's decision. PENDING is not a decision.
func ParseDecision(s string) (ApplicationStatus, error) {
	switch ApplicationStatus(s) {
	case StatusApproved, StatusDeclined:
		return ApplicationStatus(s), nil
	default:
		return "", fmt.Errorf("decision must be APPROVED or DECLINED, got %q: %w", s, ErrValidation)
	}
}

// Application is the review unit — one per document, created at ingest.
// Once the status leaves PENDING the application is immutable.
type Application struct {
	ApplicationID string            `json:"id" dynamodbav:"application_id"`
	UserID        string            `json:"user_id" dynamodbav:"user_id"`
	DocumentID    string            `json:"document_id" dynamodbav:"document_id"`
	Details       string            `json:"details" dynamodbav:"details"`
	Status        ApplicationStatus `json:"status" dynamodbav:"status"`
	SubmittedAt   time.Time         `json:"submission_date" dynamodbav:"submitted_at"`
	UpdatedAt     time.Time         `json:"updated" dynamodbav:"updated_at"`

	// Document is attached by the listing join; never persisted on the
	// application item.
	Document *Document `json:"document,omitempty" dynamodbav:"-"`
}

// ApplicationComment is the append-only audit record of a decision. Exactly
// one is written per successful decision, inside the same transaction.
type ApplicationComment struct {
	CommentID     string    `json:"id" dynamodbav:"comment_id"`
	ApplicationID string    `json:"application_id" dynamodbav:"application_id"`
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	Comment       string    `json:"comment" dynamodbav:"comment"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
}

type DecideApplicationRequest struct {
	Decision string `json:"status" validate:"required"`
	Comment  string `json:"comment"`
}

type ModifyApplicationRequest struct {
	NewDetails string `json:"new_details" validate:"required"`
}
