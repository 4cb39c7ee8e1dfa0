package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mrlokans/readreviews/internal/apperrors"
	"github.com/mrlokans/readreviews/internal/config"
	"github.com/mrlokans/readreviews/internal/entities"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.@+\-]{3,254}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUserNotFound     = fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	ErrUserExists       = fmt.Errorf("%w: email is already in use", apperrors.ErrConflict)
	ErrMissingFields    = fmt.Errorf("%w: email, password and confirmation are required", apperrors.ErrValidation)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords did not match", apperrors.ErrMismatch)
	ErrUsernameInvalid  = fmt.Errorf("%w: username must be 3-254 characters of letters, digits or _.@+-", apperrors.ErrValidation)
	ErrEmailInvalid     = fmt.Errorf("%w: invalid email format", apperrors.ErrValidation)
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *entities.User) (*entities.User, error)
	ExistsByUsernameOrEmail(username, email string) (bool, error)
	FindByIdentifier(identifier string) (*entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email           string
	Username        string // Optional; the email is used when empty
	Password        string
	ConfirmPassword string
}

// Service handles registration and credential checks.
type Service struct {
	users  UserRepository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserRepository, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		config: cfg,
	}
}

// Register creates a user after validating the input. Checks run in a fixed
// order: missing fields, then uniqueness, then confirmation, then format.
func (s *Service) Register(in RegisterInput) (*Identity, error) {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)

	if email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, ErrMissingFields
	}
	if username == "" {
		username = email
	}

	exists, err := s.users.ExistsByUsernameOrEmail(username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	// Validate email format and length (RFC 5321 limit is 254)
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}
	if strings.TrimSpace(in.Username) != "" && !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if err := ValidatePassword(in.Password, s.config.MinPasswordLength); err != nil {
		return nil, err
	}

	passwordHash, err := HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(&entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		// A concurrent registration won the unique index
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return identityFor(user, false), nil
}

// Authenticate validates credentials and returns the caller's identity.
// The identifier may be a username or an email.
func (s *Service) Authenticate(identifier, password string, remember bool) (*Identity, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.users.FindByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return identityFor(user, remember && s.config.RememberMeEnabled), nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func identityFor(user *entities.User, remember bool) *Identity {
	return &Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Remember: remember,
	}
}
