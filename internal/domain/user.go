package domain

import "time"

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         Role      `json:"role" dynamodbav:"role"`
	Verified     bool      `json:"verified" dynamodbav:"verified"`
	Profile      *Profile  `json:"profile,omitempty" dynamodbav:"profile"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Profile holds the optional contact details attached to an account.
// Stored inline on the user item.
type Profile struct {
	FullName string `json:"full_name" dynamodbav:"full_name"`
	Company  string `json:"company" dynamodbav:"company"`
	Phone    string `json:"phone" dynamodbav:"phone"`
	Address  string `json:"address" dynamodbav:"address"`
}

type RegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type SetPasswordRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type CreateDCARequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Company  string `json:"company" validate:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}
