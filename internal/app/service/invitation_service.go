package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"recipe_memo/internal/common"
	"recipe_memo/internal/common/dbx"
	"recipe_memo/internal/domain/model"
	"recipe_memo/internal/domain/repository"
)

// InvitationService carries the operator's out-of-band operations on
// invitations and user roles.
type InvitationService struct {
	repos repository.Factory
	now   func() time.Time
}

func NewInvitationService(repos repository.Factory) *InvitationService {
	return &InvitationService{repos: repos, now: time.Now}
}

// WithClock returns a copy of s that timestamps with now.
func (s *InvitationService) WithClock(now func() time.Time) *InvitationService {
	return &InvitationService{repos: s.repos, now: now}
}

type InviteRequest struct {
	UserID     string
	Email      *string
	Role       string
	Reactivate bool
}

// InviteResult says whether Invite created a row or refreshed one.
type InviteResult int

const (
	Invited InviteResult = iota
	Reinvited
)

// Invite registers an invitation. An existing one is only overwritten when
// req.Reactivate is set, and comes back active and unused.
func (s *InvitationService) Invite(ctx context.Context, db dbx.DBTX, req InviteRequest) (InviteResult, error) {
	if req.UserID == "" {
		return Invited, common.NewError(common.ErrBadRequest, "userid is required")
	}
	role := req.Role
	if role == "" {
		role = model.RoleMember
	}
	invitations := s.repos.Invitations(db)
	now := model.FormatTimestamp(s.now())

	_, err := invitations.FindByUserID(ctx, req.UserID)
	switch {
	case err == nil:
		if !req.Reactivate {
			return Invited, common.NewError(common.ErrConflict,
				fmt.Sprintf("userid '%s' is already invited; pass --reactivate to invite again", req.UserID))
		}
		if _, err := invitations.Reinvite(ctx, req.UserID, req.Email, role, now); err != nil {
			return Invited, err
		}
		return Reinvited, nil
	case errors.Is(err, common.ErrNotFound):
		inv := &model.Invitation{
			UserID:    req.UserID,
			Email:     req.Email,
			Role:      role,
			InvitedAt: now,
			IsActive:  true,
		}
		if err := invitations.Create(ctx, inv); err != nil {
			return Invited, err
		}
		return Invited, nil
	default:
		return Invited, err
	}
}

// Deactivate blocks signup through the invitation; false when none exists.
func (s *InvitationService) Deactivate(ctx context.Context, db dbx.DBTX, userID string) (bool, error) {
	return s.repos.Invitations(db).Deactivate(ctx, userID)
}

// Reactivate makes the invitation usable again, clearing its consumption.
func (s *InvitationService) Reactivate(ctx context.Context, db dbx.DBTX, userID string) (bool, error) {
	return s.repos.Invitations(db).Reactivate(ctx, userID, model.FormatTimestamp(s.now()))
}

func (s *InvitationService) Delete(ctx context.Context, db dbx.DBTX, userID string) (bool, error) {
	return s.repos.Invitations(db).Delete(ctx, userID)
}

func (s *InvitationService) ListInvitations(ctx context.Context, db dbx.DBTX) ([]model.Invitation, error) {
	return s.repos.Invitations(db).List(ctx)
}

func (s *InvitationService) ListUsers(ctx context.Context, db dbx.DBTX) ([]model.User, error) {
	return s.repos.Users(db).List(ctx)
}

// SetUserRole changes a registered user's role; false when the user does
// not exist.
func (s *InvitationService) SetUserRole(ctx context.Context, db dbx.DBTX, userID, role string) (bool, error) {
	if role == "" {
		return false, common.NewError(common.ErrBadRequest, "role is required")
	}
	return s.repos.Users(db).UpdateRole(ctx, userID, role)
}
