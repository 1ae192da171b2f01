package auth

import (
	"context"
	"errors"
	"fmt"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/user"
	xerrors "egovpapua-service/internal/pkg/errors"
	"egovpapua-service/internal/pkg/jwt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserRepo interface {
	Create(ctx context.Context, u *user.User) error
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id int64) (*user.User, error)
}

type AuthService struct {
	users  UserRepo
	tokens *jwt.Manager
	logger *zap.Logger
}

func NewAuthService(users UserRepo, tokens *jwt.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Login verifies credentials and issues an access token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrUnauthorized
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, xerrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	token, err := s.tokens.Generate(u.ID, u.Role, u.TenantID.Int64)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.Int64("user_id", u.ID), zap.String("role", u.Role))
	return &user.LoginResponse{Token: token, User: u}, nil
}

// CreateUser registers a new account. Tenant-scoped roles must name a tenant.
func (s *AuthService) CreateUser(ctx context.Context, req user.CreateUserRequest) (*user.User, error) {
	role := access.Role(req.Role)
	switch role {
	case access.RoleSuperAdmin:
	case access.RoleTenantAdmin, access.RoleTenantEditor:
		if req.TenantID == 0 {
			return nil, fmt.Errorf("%w: role %s requires a tenant", xerrors.ErrInvalidInput, req.Role)
		}
	default:
		return nil, fmt.Errorf("%w: unknown role %q", xerrors.ErrInvalidInput, req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     true,
	}
	if req.TenantID != 0 {
		u.TenantID.Int64 = req.TenantID
		u.TenantID.Valid = true
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*user.User, error) {
	return s.users.FindByID(ctx, id)
}
