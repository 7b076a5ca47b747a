package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trade-docs-api/internal/domain"
	"github.com/trade-docs-api/internal/pkg/id"
	"github.com/trade-docs-api/internal/pkg/password"
	"golang.org/x/crypto/bcrypt"
)

// codeTTL is how long a registration verification code stays valid.
const codeTTL = 15 * time.Minute

// generatedPasswordLen is the length of portal-issued initial passwords.
const generatedPasswordLen = 12

type Service interface {
	// Register creates (or re-keys) an unverified trader account and emails
	// a verification code together with a generated initial password.
	Register(ctx context.Context, email string) (*domain.User, error)
	// VerifyCode confirms email ownership: marks the account verified and
	// consumes the one-time code.
	VerifyCode(ctx context.Context, email, code string) (string, error)
	// SetPassword replaces the generated password after verification.
	SetPassword(ctx context.Context, userID, newPassword string) error
	// Login checks credentials and role and returns a signed bearer token.
	Login(ctx context.Context, email, plainPassword string, wantRoles ...domain.Role) (string, *domain.User, error)
	// ChangePassword requires the current password to match and the new one
	// to differ from it.
	ChangePassword(ctx context.Context, email, currentPassword, newPassword string, wantRoles ...domain.Role) error
	// CreateDCA provisions a reviewer account with a one-time password sent
	// by mail. Mail failure does not fail the creation.
	CreateDCA(ctx context.Context, req domain.CreateDCARequest) (*domain.User, error)
	// DeleteDCA removes a reviewer account, profile included.
	DeleteDCA(ctx context.Context, dcaID string) error
	// ListByRole returns all accounts with the given role.
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	// UpdateProfile upserts the contact details on an account.
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
	// Get returns a single account.
	Get(ctx context.Context, userID string) (*domain.User, error)
	// SeedAdmin creates the bootstrap ADMIN account if it does not exist.
	SeedAdmin(ctx context.Context, email, plainPassword string) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	QueryByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.VerificationCode) error
	Get(ctx context.Context, userID string) (*domain.VerificationCode, error)
	Delete(ctx context.Context, userID string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type jwtSigner interface {
	Sign(userID, email string, role domain.Role) (string, error)
}

type service struct {
	users          userStore
	verifications  verificationStore
	mailer         mailer
	sms            smsSender // nil when SNS is not configured
	jwtProvider    jwtSigner
	portalLoginURL string
}

type ServiceDeps struct {
	UserRepo         userStore
	VerificationRepo verificationStore
	Mailer           mailer
	SMSSender        smsSender
	JWTProvider      jwtSigner
	PortalLoginURL   string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:          deps.UserRepo,
		verifications:  deps.VerificationRepo,
		mailer:         deps.Mailer,
		sms:            deps.SMSSender,
		jwtProvider:    deps.JWTProvider,
		portalLoginURL: deps.PortalLoginURL,
	}
}

func (s *service) Register(ctx context.Context, email string) (*domain.User, error) {
	plain, err := password.Generate(generatedPasswordLen)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		now := time.Now().UTC()
		u = &domain.User{
			UserID:       id.New(),
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleExporter,
			Verified:     false,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.users.Put(ctx, u); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case u.Verified:
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	default:
		// Unfinished registration: issue a fresh password and code.
		if err := s.users.Update(ctx, u.UserID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
			return nil, err
		}
	}

	code, err := password.Code()
	if err != nil {
		return nil, err
	}
	if err := s.verifications.Put(ctx, &domain.VerificationCode{
		UserID:    u.UserID,
		Code:      code,
		ExpiresAt: time.Now().Add(codeTTL).Unix(),
	}); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Your verification code is: %s\nYour password is: %s", code, plain)
	if err := s.mailer.SendEmail(email, "Verify your account", body); err != nil {
		slog.Warn("could not send verification email", "email", email, "err", err)
	}
	if s.sms != nil && u.Profile != nil && u.Profile.Phone != "" {
		if err := s.sms.SendSMS(ctx, u.Profile.Phone, "Your verification code is: "+code); err != nil {
			slog.Warn("could not send verification SMS", "user_id", u.UserID, "err", err)
		}
	}
	return u, nil
}

func (s *service) VerifyCode(ctx context.Context, email, code string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("invalid request: %w", domain.ErrValidation)
	}
	v, err := s.verifications.Get(ctx, u.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid request: %w", domain.ErrValidation)
	}
	if v.Code != code || v.ExpiresAt < time.Now().Unix() {
		return "", fmt.Errorf("invalid or expired code: %w", domain.ErrValidation)
	}
	if err := s.users.Update(ctx, u.UserID, map[string]interface{}{"verified": true}); err != nil {
		return "", err
	}
	if err := s.verifications.Delete(ctx, u.UserID); err != nil {
		slog.Warn("could not consume verification code", "user_id", u.UserID, "err", err)
	}
	return u.UserID, nil
}

func (s *service) SetPassword(ctx context.Context, userID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{
		"password_hash": string(hash),
		"verified":      true,
	}); err != nil {
		return err
	}
	// Any leftover verification code is void once a password is chosen.
	if err := s.verifications.Delete(ctx, userID); err != nil {
		slog.Warn("could not delete verification code", "user_id", userID, "err", err)
	}
	return nil
}

func (s *service) Login(ctx context.Context, email, plainPassword string, wantRoles ...domain.Role) (string, *domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthenticated)
	}
	if !roleAllowed(u.Role, wantRoles) {
		return "", nil, fmt.Errorf("role %s cannot use this login: %w", u.Role, domain.ErrUnauthorized)
	}
	if u.Role.IsTrader() && !u.Verified {
		return "", nil, fmt.Errorf("account not verified: %w", domain.ErrUnauthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainPassword)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthenticated)
	}
	if s.jwtProvider == nil {
		return "", nil, fmt.Errorf("token signing is not configured: %w", domain.ErrDependency)
	}
	token, err := s.jwtProvider.Sign(u.UserID, u.Email, u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *service) ChangePassword(ctx context.Context, email, currentPassword, newPassword string, wantRoles ...domain.Role) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("invalid credentials: %w", domain.ErrUnauthenticated)
	}
	if !roleAllowed(u.Role, wantRoles) {
		return fmt.Errorf("role %s cannot use this endpoint: %w", u.Role, domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthenticated)
	}
	if currentPassword == newPassword {
		return fmt.Errorf("new password must differ from the current password: %w", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, u.UserID, map[string]interface{}{"password_hash": string(hash)})
}

func (s *service) CreateDCA(ctx context.Context, req domain.CreateDCARequest) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	plain, err := password.Generate(generatedPasswordLen)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleDCA,
		Verified:     true, // reviewer accounts are provisioned verified
		Profile: &domain.Profile{
			FullName: req.FullName,
			Company:  req.Company,
			Phone:    req.Phone,
			Address:  req.Address,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYou have been created as a DCA on the trade document portal.\nYour temporary password is: %s\n\nPlease log in at %s and change your password immediately.",
		req.FullName, plain, s.portalLoginURL,
	)
	// Best effort: a failed welcome mail must not roll back the account.
	if err := s.mailer.SendEmail(req.Email, "Your DCA reviewer account", body); err != nil {
		slog.Warn("could not send DCA welcome email", "email", req.Email, "err", err)
	}
	return u, nil
}

func (s *service) DeleteDCA(ctx context.Context, dcaID string) error {
	u, err := s.users.Get(ctx, dcaID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("DCA not found: %w", domain.ErrNotFound)
		}
		return err
	}
	if u.Role != domain.RoleDCA {
		return fmt.Errorf("DCA not found: %w", domain.ErrNotFound)
	}
	return s.users.Delete(ctx, dcaID)
}

func (s *service) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return s.users.QueryByRole(ctx, role)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	profile := domain.Profile{
		FullName: req.FullName,
		Company:  req.Company,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"profile": profile}); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) SeedAdmin(ctx context.Context, email, plainPassword string) error {
	if email == "" || plainPassword == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return err
	}
	slog.Info("seeded admin account", "email", email)
	return nil
}

func roleAllowed(have domain.Role, want []domain.Role) bool {
	for _, r := range want {
		if have == r {
			return true
		}
	}
	return false
}
