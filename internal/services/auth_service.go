package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ludicboard/ludicboard-api/internal/constants"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
)

// valueValidator checks single values with the same rules the request binding uses.
var valueValidator = validator.New()

// AuthService handles registration, login and profile changes.
type AuthService struct {
	users  repository.UserRepository
	tokens *TokenService
	log    *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, tokens *TokenService, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates the user and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)

	if n := len([]rune(username)); n < constants.MinUsernameLength || n > constants.MaxUsernameLength {
		return nil, "", apierrors.BadRequest("Username must be between 3 and 50 characters")
	}
	if err := valueValidator.Var(email, "required,email"); err != nil {
		return nil, "", apierrors.BadRequest("Invalid email address")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, "", apierrors.BadRequest("Password must be at least 8 characters")
	}

	if err := s.ensureUsernameFree(ctx, username, 0); err != nil {
		return nil, "", err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", apierrors.Wrap(ErrEmailTaken, http.StatusConflict, apierrors.ErrCodeAlreadyExists, "Email already exists")
	} else if !repository.IsNotFound(err) {
		return nil, "", apierrors.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apierrors.Internal(err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, "", apierrors.Wrap(ErrEmailTaken, http.StatusConflict, apierrors.ErrCodeAlreadyExists, "Username or email already exists")
		}
		return nil, "", apierrors.Internal(err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apierrors.Internal(err)
	}

	s.log.Info("User registered", zap.Uint64("user_id", user.ID))
	return user, token, nil
}

// Login verifies credentials. Unknown email and wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", invalidCredentials()
		}
		return nil, "", apierrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", invalidCredentials()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apierrors.Internal(err)
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user. Every failure is the
// same 401 so callers cannot tell why a token was refused.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apierrors.Wrap(err, http.StatusUnauthorized, apierrors.ErrCodeUnauthorized, "Authentication required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierrors.Unauthorized("")
		}
		return nil, apierrors.Internal(err)
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierrors.NotFound("User not found")
		}
		return nil, apierrors.Internal(err)
	}
	return user, nil
}

type UpdateProfileInput struct {
	Username          *string
	ProfilePictureURL *string
}

// UpdateProfile changes the username and/or picture and returns a fresh token.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, input UpdateProfileInput) (*models.User, string, error) {
	if input.Username == nil && input.ProfilePictureURL == nil {
		return nil, "", apierrors.BadRequest("Nothing to update")
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if n := len([]rune(username)); n < constants.MinUsernameLength || n > constants.MaxUsernameLength {
			return nil, "", apierrors.BadRequest("Username must be between 3 and 50 characters")
		}
		if err := s.ensureUsernameFree(ctx, username, user.ID); err != nil {
			return nil, "", err
		}
		user.Username = username
	}
	if input.ProfilePictureURL != nil {
		url := strings.TrimSpace(*input.ProfilePictureURL)
		if url == "" {
			user.ProfilePictureURL = nil
		} else {
			user.ProfilePictureURL = &url
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, "", apierrors.Wrap(ErrUsernameTaken, http.StatusConflict, apierrors.ErrCodeAlreadyExists, "Username already exists")
		}
		return nil, "", apierrors.Internal(err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apierrors.Internal(err)
	}

	s.log.Info("Profile updated", zap.Uint64("user_id", user.ID))
	return user, token, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint64, current, next string) (string, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return "", apierrors.BadRequest("Current password is incorrect")
	}
	if len(next) < constants.MinPasswordLength {
		return "", apierrors.BadRequest("Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return "", apierrors.Internal(err)
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return "", apierrors.Internal(err)
	}

	s.log.Info("Password changed", zap.Uint64("user_id", user.ID))
	return s.tokens.Issue(user.ID)
}

func (s *AuthService) ensureUsernameFree(ctx context.Context, username string, selfID uint64) error {
	existing, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil && existing.ID != selfID:
		return apierrors.Wrap(ErrUsernameTaken, http.StatusConflict, apierrors.ErrCodeAlreadyExists, "Username already exists")
	case err != nil && !repository.IsNotFound(err):
		return apierrors.Internal(err)
	}
	return nil
}

func invalidCredentials() *apierrors.AppError {
	return apierrors.Wrap(ErrInvalidCredentials, http.StatusUnauthorized, apierrors.ErrCodeInvalidCredentials, "Invalid credentials")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
