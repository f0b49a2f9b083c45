package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/server/auth"
	"github.com/wtg/vaultsync/internal/server/models"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor used when the accounts were first
// provisioned. Changing it only affects newly hashed passwords.
const bcryptCost = 12

// Session is the result of a successful login or bootstrap.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// CreateInput is the admin payload for provisioning an account.
type CreateInput struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role,omitempty"`
}

// UpdateInput carries optional account changes; nil fields are left as-is.
type UpdateInput struct {
	Password *string      `json:"password,omitempty"`
	Role     *models.Role `json:"role,omitempty"`
	Active   *bool        `json:"active,omitempty"`
}

// Service implements authentication and account administration.
type Service struct {
	repo          Repository
	secretKey     []byte
	tokenValidity time.Duration
}

func NewService(repo Repository, secretKey []byte, tokenValidity time.Duration) *Service {
	return &Service{repo: repo, secretKey: secretKey, tokenValidity: tokenValidity}
}

// Bootstrap provisions the first account with the ADMIN role and returns a
// session for it. Once any account exists it fails with
// common.ErrAlreadyExists.
func (s *Service) Bootstrap(ctx context.Context, username, password string) (Session, error) {
	if username == "" || password == "" {
		return Session{}, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	n, err := s.repo.Count(ctx)
	if err != nil {
		return Session{}, err
	}
	if n > 0 {
		return Session{}, fmt.Errorf("%w: already bootstrapped", common.ErrAlreadyExists)
	}

	u, err := s.insert(ctx, username, password, models.RoleAdmin)
	if err != nil {
		return Session{}, err
	}
	return s.session(u)
}

// Login verifies the password of an active account and returns a session.
// Unknown usernames, disabled accounts, and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return Session{}, common.ErrUnauthorized
		}
		return Session{}, err
	}
	if !u.Active {
		return Session{}, common.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, common.ErrUnauthorized
	}
	return s.session(u)
}

// List returns all accounts, oldest first.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

// Create provisions an account. Empty role defaults to USER.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.User, error) {
	if in.Username == "" || in.Password == "" {
		return models.User{}, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return models.User{}, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}
	return s.insert(ctx, in.Username, in.Password, role)
}

// Update applies the non-nil fields of in to the account.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	if in.Role != nil {
		if *in.Role != models.RoleAdmin && *in.Role != models.RoleUser {
			return models.User{}, fmt.Errorf("%w: unknown role %q", common.ErrValidation, *in.Role)
		}
		u.Role = *in.Role
	}
	if in.Active != nil {
		u.Active = *in.Active
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Service) insert(ctx context.Context, username, password string, role models.Role) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    common.NowMillis(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Service) session(u models.User) (Session, error) {
	token, err := auth.GenerateToken(u.ID, string(u.Role), s.secretKey, s.tokenValidity)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return Session{Token: token, User: u}, nil
}
