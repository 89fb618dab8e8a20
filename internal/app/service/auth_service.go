package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"algomentor/internal/common"
	"algomentor/internal/common/security"
	"algomentor/internal/domain/model"
	"algomentor/internal/domain/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo       repository.UserRepository
	profileService *ProfileService
	db             *sql.DB
}

func NewAuthService(userRepo repository.UserRepository, profileService *ProfileService, db *sql.DB) *AuthService {
	return &AuthService{userRepo: userRepo, profileService: profileService, db: db}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Register creates the account and its default learning profile in one
// transaction, so no user exists without a profile.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, common.Errorf("username and email are required: %w", common.ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, common.Errorf("password must be at least 8 characters: %w", common.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          strings.ToLower(req.Email),
		HashedPassword: string(hashed),
		Role:           model.RoleUser,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		return nil, err
	}
	if err := s.profileService.CreateProfile(ctx, tx, user.ID); err != nil {
		return nil, common.Errorf("failed to create user profile: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, common.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: *user}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("invalid credentials: %w", common.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, common.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, common.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: *user}, nil
}
