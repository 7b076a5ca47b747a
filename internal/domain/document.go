package domain

import (
	"fmt"
	"time"
)

// DocumentType is the closed set of trade document categories.
type DocumentType string

const (
	DocTypeExportLicense      DocumentType = "EXPORT_LICENSE"
	DocTypeImportLicense      DocumentType = "IMPORT_LICENSE"
	DocTypeCompanyCertificate DocumentType = "COMPANY_CERTIFICATE"
	DocTypeTaxClearance       DocumentType = "TAX_CLEARANCE"
)

// ParseDocumentType validates a raw string against the closed type set.
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case DocTypeExportLicense, DocTypeImportLicense, DocTypeCompanyCertificate, DocTypeTaxClearance:
		return DocumentType(s), nil
	default:
		return "", fmt.Errorf("unknown document type %q: %w", s, ErrValidation)
	}
}

// Document is an uploaded trade artifact. Created once at ingest and
// immutable thereafter; the same document is never re-uploaded.
type Document struct {
	DocumentID  string       `json:"id" dynamodbav:"document_id"`
	UserID      string       `json:"user_id" dynamodbav:"user_id"`
	Name        string       `json:"name" dynamodbav:"name"`
	Description string       `json:"description" dynamodbav:"description"`
	Type        DocumentType `json:"document_type" dynamodbav:"document_type"`
	ObjectKey   string       `json:"-" dynamodbav:"object_key"`
	URL         string       `json:"document_url" dynamodbav:"document_url"`
	CreatedAt   time.Time    `json:"created" dynamodbav:"created_at"`
}
