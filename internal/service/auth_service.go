package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"stockledger/internal/auth"
	apperrors "stockledger/internal/errors"
	"stockledger/internal/model"
	"stockledger/internal/repository"
)

const bcryptCost = 10

// AuthService handles registration, login and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password, accessToken string) (cookieToken string, user *model.User, err error)
	Logout(ctx context.Context, cookieToken string) error
	ValidateCookie(cookieToken string) (*auth.Session, error)
}

type authService struct {
	userRepo    repository.UserRepository
	sessions    auth.SessionStoreInterface
	signer      *auth.CookieSigner
	throttle    auth.LoginThrottleInterface
	accessToken string
}

// NewAuthService creates a new authentication service. accessToken is the
// single shared login secret; when empty every login fails closed.
func NewAuthService(
	userRepo repository.UserRepository,
	sessions auth.SessionStoreInterface,
	signer *auth.CookieSigner,
	throttle auth.LoginThrottleInterface,
	accessToken string,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessions:    sessions,
		signer:      signer,
		throttle:    throttle,
		accessToken: accessToken,
	}
}

// Register creates a new user with a hashed password. The email is normalized
// before the uniqueness check so addresses differing only by case or
// surrounding whitespace collide.
func (s *authService) Register(ctx context.Context, email, password string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        normalizeEmail(email),
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies the shared access token and the user's credentials, then
// issues a session and returns its signed cookie token.
//
// The access token is checked before the credential store is touched, so a
// wrong token leaks nothing about whether the email exists. Unknown email
// and wrong password collapse into the same error for the same reason.
func (s *authService) Login(ctx context.Context, email, password, accessToken string) (string, *model.User, error) {
	email = normalizeEmail(email)

	if !s.throttle.Attempt(ctx, email) {
		return "", nil, apperrors.ErrTooManyAttempts
	}

	// Fail closed: a missing configured secret rejects every login.
	if s.accessToken == "" {
		return "", nil, apperrors.ErrInvalidAccessToken
	}
	if subtle.ConstantTimeCompare([]byte(accessToken), []byte(s.accessToken)) != 1 {
		return "", nil, apperrors.ErrInvalidAccessToken
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	handle, session, err := s.sessions.Create(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	cookieToken, err := s.signer.Sign(handle, session.ExpiresAt)
	if err != nil {
		s.sessions.Destroy(handle)
		return "", nil, fmt.Errorf("sign session cookie: %w", err)
	}

	s.throttle.Reset(ctx, email)
	return cookieToken, user, nil
}

// Logout destroys the session behind a cookie token. It is idempotent: an
// unparseable token or an already-destroyed session is a no-op.
func (s *authService) Logout(ctx context.Context, cookieToken string) error {
	handle, err := s.signer.Parse(cookieToken)
	if err != nil {
		return nil
	}
	s.sessions.Destroy(handle)
	return nil
}

// ValidateCookie verifies a cookie token's signature and validates the
// embedded handle against the session table.
func (s *authService) ValidateCookie(cookieToken string) (*auth.Session, error) {
	handle, err := s.signer.Parse(cookieToken)
	if err != nil {
		return nil, apperrors.ErrSessionInvalid
	}
	return s.sessions.Validate(handle)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
