package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"stockledger/internal/auth"
	apperrors "stockledger/internal/errors"
	"stockledger/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockLoginThrottle is a mock implementation of LoginThrottleInterface.
type MockLoginThrottle struct {
	mock.Mock
}

func (m *MockLoginThrottle) Attempt(ctx context.Context, email string) bool {
	args := m.Called(ctx, email)
	return args.Bool(0)
}

func (m *MockLoginThrottle) Reset(ctx context.Context, email string) {
	m.Called(ctx, email)
}

func newTestAuthService(repo *MockUserRepository, throttle *MockLoginThrottle, accessToken string) AuthService {
	sessions := auth.NewSessionStore(auth.SessionTTL)
	signer := auth.NewCookieSigner("test-session-secret")
	return NewAuthService(repo, sessions, signer, throttle, accessToken)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedEmail string
		expectedError error
	}{
		{
			name:     "successful registration",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedEmail: "test@example.com",
			expectedError: nil,
		},
		{
			name:     "email is normalized before persisting",
			email:    "  Test@Example.COM ",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "test@example.com"
				})).Return(nil)
			},
			expectedEmail: "test@example.com",
			expectedError: nil,
		},
		{
			name:     "duplicate email",
			email:    "existing@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrDuplicateEmail)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newTestAuthService(mockRepo, new(MockLoginThrottle), "shared-token")
			user, err := service.Register(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.expectedEmail, user.Email)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.password, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	userID := uuid.New()
	storedUser := &model.User{
		ID:           userID,
		Email:        "test@example.com",
		PasswordHash: string(hashedPassword),
	}

	tests := []struct {
		name            string
		email           string
		password        string
		presentedToken  string
		configuredToken string
		setupMock       func(*MockUserRepository, *MockLoginThrottle)
		expectedError   error
	}{
		{
			name:            "successful login",
			email:           "test@example.com",
			password:        "password123",
			presentedToken:  "shared-token",
			configuredToken: "shared-token",
			setupMock: func(mRepo *MockUserRepository, mThrottle *MockLoginThrottle) {
				mThrottle.On("Attempt", mock.Anything, "test@example.com").Return(true)
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(storedUser, nil)
				mThrottle.On("Reset", mock.Anything, "test@example.com").Return()
			},
			expectedError: nil,
		},
		{
			name:            "wrong access token rejected before store is touched",
			email:           "test@example.com",
			password:        "password123",
			presentedToken:  "wrong-token",
			configuredToken: "shared-token",
			setupMock: func(mRepo *MockUserRepository, mThrottle *MockLoginThrottle) {
				mThrottle.On("Attempt", mock.Anything, "test@example.com").Return(true)
			},
			expectedError: apperrors.ErrInvalidAccessToken,
		},
		{
			name:            "absent access token rejected",
			email:           "test@example.com",
			password:        "password123",
			presentedToken:  "",
			configuredToken: "shared-token",
			setupMock: func(mRepo *MockUserRepository, mThrottle *MockLoginThrottle) {
				mThrottle.On("Attempt", mock.Anything, "test@example.com").Return(true)
			},
			expectedError: apperrors.ErrInvalidAccessToken,
		},
		{
			name:            "unconfigured access token fails closed",
			email:           "test@example.com",
			password:        "password123",
			presentedToken:  "anything",
			configuredToken: "",
			setupMock: func(mRepo *MockUserRepository, mThrottle *MockLoginThrottle) {
				mThrottle.On("Attempt", mock.Anything, "test@example.com").Return(true)
			},
			expectedError: apperrors.ErrInvalidAccessToken,
		},
		{
			name:            "unknown email",
			email:           "notfound@example.com",
			password:        "password123",
			presentedToken:  "shared-token",
			configuredToken: "shared-token",
			setupMock: func(mRepo *MockUserRepository, mThrottle *MockLoginThrottle) {
				mThrottle.On("Attempt", mock.Anything, "notfound@example.com").Return(true)
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:            "wrong password collapses to the same error",
			email:           "test@example.com",
			password:        "wrong-password",
			presentedToken:  "shared-token",
			configuredToken: "shared-token",
			setupMock: func(mRepo *MockUserRepository, mThrottle *MockLoginThrottle) {
				mThrottle.On("Attempt", mock.Anything, "test@example.com").Return(true)
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(storedUser, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:            "throttled login",
			email:           "test@example.com",
			password:        "password123",
			presentedToken:  "shared-token",
			configuredToken: "shared-token",
			setupMock: func(mRepo *MockUserRepository, mThrottle *MockLoginThrottle) {
				mThrottle.On("Attempt", mock.Anything, "test@example.com").Return(false)
			},
			expectedError: apperrors.ErrTooManyAttempts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockThrottle := new(MockLoginThrottle)
			tt.setupMock(mockRepo, mockThrottle)

			service := newTestAuthService(mockRepo, mockThrottle, tt.configuredToken)
			cookieToken, user, err := service.Login(context.Background(), tt.email, tt.password, tt.presentedToken)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, cookieToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, cookieToken)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
			mockThrottle.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_TokenCheckedBeforeStore(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockThrottle := new(MockLoginThrottle)
	mockThrottle.On("Attempt", mock.Anything, "test@example.com").Return(true)

	service := newTestAuthService(mockRepo, mockThrottle, "shared-token")
	_, _, err := service.Login(context.Background(), "test@example.com", "password123", "wrong-token")

	assert.Equal(t, apperrors.ErrInvalidAccessToken, err)
	mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_ValidateCookie(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	storedUser := &model.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: string(hashedPassword),
	}

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(storedUser, nil)
	mockThrottle := new(MockLoginThrottle)
	mockThrottle.On("Attempt", mock.Anything, "test@example.com").Return(true)
	mockThrottle.On("Reset", mock.Anything, "test@example.com").Return()

	service := newTestAuthService(mockRepo, mockThrottle, "shared-token")
	cookieToken, _, err := service.Login(context.Background(), "test@example.com", "password123", "shared-token")
	assert.NoError(t, err)

	session, err := service.ValidateCookie(cookieToken)
	assert.NoError(t, err)
	assert.Equal(t, storedUser.ID, session.UserID)
	assert.Equal(t, "test@example.com", session.Email)
	assert.WithinDuration(t, time.Now().Add(auth.SessionTTL), session.ExpiresAt, 5*time.Second)

	// A token signed with another secret must be rejected.
	otherSigner := auth.NewCookieSigner("other-secret")
	forged, err := otherSigner.Sign("some-handle", time.Now().Add(time.Hour))
	assert.NoError(t, err)
	_, err = service.ValidateCookie(forged)
	assert.Equal(t, apperrors.ErrSessionInvalid, err)

	// After logout the same cookie no longer validates, and a second logout
	// with the same cookie is a no-op.
	assert.NoError(t, service.Logout(context.Background(), cookieToken))
	_, err = service.ValidateCookie(cookieToken)
	assert.Equal(t, apperrors.ErrSessionInvalid, err)
	assert.NoError(t, service.Logout(context.Background(), cookieToken))
}

func TestAuthService_Logout_UnparseableCookie(t *testing.T) {
	service := newTestAuthService(new(MockUserRepository), new(MockLoginThrottle), "shared-token")
	assert.NoError(t, service.Logout(context.Background(), "not-a-token"))
}
