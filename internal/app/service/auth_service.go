package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"recipe_memo/internal/common"
	"recipe_memo/internal/common/dbx"
	"recipe_memo/internal/common/security"
	"recipe_memo/internal/domain/model"
	"recipe_memo/internal/domain/repository"
)

type AuthService struct {
	repos repository.Factory
	now   func() time.Time
}

func NewAuthService(repos repository.Factory) *AuthService {
	return &AuthService{repos: repos, now: time.Now}
}

type SignupRequest struct {
	UserID   string `json:"userid"`
	Password string `json:"password"`
}

type LoginRequest struct {
	UserID   string `json:"userid"`
	Password string `json:"password"`
}

type SignupResponse struct {
	Status string `json:"status"`
	UserID string `json:"userid"`
	Role   string `json:"role"`
}

type LoginResponse struct {
	Status string `json:"status"`
	UserID string `json:"userid"`
}

var errCredentialsRequired = common.NewError(common.ErrBadRequest, "userid and password are required")

// Signup creates the account an invitation allows and consumes the
// invitation. The user insert and the consumption commit together.
func (s *AuthService) Signup(ctx context.Context, db dbx.Conn, req SignupRequest) (*SignupResponse, error) {
	if req.UserID == "" || req.Password == "" {
		return nil, errCredentialsRequired
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var role string
	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repos.Users(tx)
		invitations := s.repos.Invitations(tx)

		exists, err := users.Exists(ctx, req.UserID)
		if err != nil {
			return err
		}
		if exists {
			return common.NewError(common.ErrConflict, "userid already exists")
		}

		invite, err := invitations.FindByUserID(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.NewError(common.ErrForbidden, "signup not allowed")
			}
			return err
		}
		if !invite.IsActive {
			return common.NewError(common.ErrForbidden, "signup not allowed")
		}
		if invite.Consumed() {
			return common.NewError(common.ErrConflict, "invitation already used")
		}

		role = invite.GrantedRole()
		user := &model.User{
			UserID:         req.UserID,
			HashedPassword: hashedPassword,
			Role:           role,
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		return invitations.MarkUsed(ctx, req.UserID, model.FormatTimestamp(s.now()))
	})
	if err != nil {
		return nil, err
	}

	return &SignupResponse{Status: "ok", UserID: req.UserID, Role: role}, nil
}

// Login checks credentials. The caller establishes the session.
func (s *AuthService) Login(ctx context.Context, db dbx.DBTX, req LoginRequest) (*LoginResponse, error) {
	if req.UserID == "" || req.Password == "" {
		return nil, errCredentialsRequired
	}

	user, err := s.repos.Users(db).FindByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrUnauthorized, "invalid credentials") // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.NewError(common.ErrUnauthorized, "invalid credentials")
	}

	return &LoginResponse{Status: "ok", UserID: user.UserID}, nil
}
