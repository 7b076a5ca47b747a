package http

import (
	"github.com/trade-docs-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/trade-docs-api/internal/infrastructure/jwt"
	s3infra "github.com/trade-docs-api/internal/infrastructure/s3"
	"github.com/trade-docs-api/internal/infrastructure/smtp"
	"github.com/trade-docs-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	DocumentRepo     *dynamo.DocumentRepo
	ApplicationRepo  *dynamo.ApplicationRepo
	CommentRepo      *dynamo.CommentRepo
	VerificationRepo *dynamo.VerificationRepo
	S3Store          *s3infra.Store
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender
	JWTProvider      *jwtinfra.Provider
}
