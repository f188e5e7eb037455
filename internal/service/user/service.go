package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// DefaultSessionTTL is used when New receives a non-positive ttl.
const DefaultSessionTTL = 48 * time.Hour

// Service handles registration, login and bearer-token lookup.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	sessionTTL  time.Duration
	passwordMin int
	logger      *zap.Logger
}

func New(repo userrepo.Repository, tokens tokenrepo.Repository, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		sessionTTL:  ttl,
		passwordMin: 8,
		logger:      logger,
	}
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// Register creates a customer account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email is malformed", domain.ErrInvalidInput)
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, domain.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Role:         domain.RoleCustomer,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("email %s: %w", email, domain.ErrAlreadyExists)
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user", u.ID))
	return u, nil
}

// Login validates credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	password = strings.TrimSpace(password)
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, u.ID, s.sessionTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Logout revokes token. Unknown tokens are treated as already revoked.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Authenticate returns the user bound to a live token.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, ok, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// SessionTTLSeconds exposes the token lifetime in seconds.
func (s *Service) SessionTTLSeconds() int {
	return int(s.sessionTTL.Seconds())
}

func validatePassword(p string, min int) error {
	if len(p) < min {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number", domain.ErrInvalidInput)
	}
	return nil
}
