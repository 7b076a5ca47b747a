package domain

// VerificationCode is the short-lived one-time code emailed at registration.
// PK: user_id. ExpiresAt is a Unix timestamp used as DynamoDB TTL; codes are
// valid for 15 minutes and consumed on successful verification.
type VerificationCode struct {
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"`
}
