package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"recipe_memo/internal/common"
	"recipe_memo/internal/common/dbx"
	"recipe_memo/internal/domain/model"
)

type InvitationRepository interface {
	Create(ctx context.Context, inv *model.Invitation) error
	FindByUserID(ctx context.Context, userID string) (*model.Invitation, error)
	List(ctx context.Context) ([]model.Invitation, error)
	// Reinvite overwrites email and role of an existing invitation and makes
	// it usable again.
	Reinvite(ctx context.Context, userID string, email *string, role, invitedAt string) (bool, error)
	Deactivate(ctx context.Context, userID string) (bool, error)
	Reactivate(ctx context.Context, userID, invitedAt string) (bool, error)
	Delete(ctx context.Context, userID string) (bool, error)
	// MarkUsed consumes an active, unused invitation.
	MarkUsed(ctx context.Context, userID, usedAt string) error
}

type sqliteInvitationRepository struct {
	db dbx.DBTX
}

func NewSQLiteInvitationRepository(db dbx.DBTX) InvitationRepository {
	return &sqliteInvitationRepository{db: db}
}

const invitationColumns = `id, userid, email, role, invited_at, used_at, is_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*model.Invitation, error) {
	var (
		inv    model.Invitation
		email  sql.NullString
		usedAt sql.NullString
	)
	if err := row.Scan(&inv.ID, &inv.UserID, &email, &inv.Role, &inv.InvitedAt, &usedAt, &inv.IsActive); err != nil {
		return nil, err
	}
	if email.Valid {
		inv.Email = &email.String
	}
	if usedAt.Valid {
		inv.UsedAt = &usedAt.String
	}
	return &inv, nil
}

func (r *sqliteInvitationRepository) Create(ctx context.Context, inv *model.Invitation) error {
	query := `INSERT INTO allowed_users (userid, email, role, is_active, invited_at)
	          VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, inv.UserID, inv.Email, inv.Role, inv.IsActive, inv.InvitedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.NewError(common.ErrConflict, fmt.Sprintf("userid '%s' is already invited", inv.UserID))
		}
		return fmt.Errorf("sqliteInvitationRepository.Create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqliteInvitationRepository.Create: %w", err)
	}
	inv.ID = id
	return nil
}

func (r *sqliteInvitationRepository) FindByUserID(ctx context.Context, userID string) (*model.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM allowed_users WHERE userid = ?`
	inv, err := scanInvitation(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqliteInvitationRepository.FindByUserID: %w", err)
	}
	return inv, nil
}

func (r *sqliteInvitationRepository) List(ctx context.Context) ([]model.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM allowed_users ORDER BY invited_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqliteInvitationRepository.List: %w", err)
	}
	defer rows.Close()

	var invitations []model.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("sqliteInvitationRepository.List: %w", err)
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

func (r *sqliteInvitationRepository) Reinvite(ctx context.Context, userID string, email *string, role, invitedAt string) (bool, error) {
	query := `UPDATE allowed_users
	          SET email = ?, role = ?, is_active = 1, used_at = NULL, invited_at = ?
	          WHERE userid = ?`
	res, err := r.db.ExecContext(ctx, query, email, role, invitedAt, userID)
	if err != nil {
		return false, fmt.Errorf("sqliteInvitationRepository.Reinvite: %w", err)
	}
	return affected(res)
}

func (r *sqliteInvitationRepository) Deactivate(ctx context.Context, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE allowed_users SET is_active = 0 WHERE userid = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("sqliteInvitationRepository.Deactivate: %w", err)
	}
	return affected(res)
}

func (r *sqliteInvitationRepository) Reactivate(ctx context.Context, userID, invitedAt string) (bool, error) {
	query := `UPDATE allowed_users
	          SET is_active = 1, used_at = NULL, invited_at = ?
	          WHERE userid = ?`
	res, err := r.db.ExecContext(ctx, query, invitedAt, userID)
	if err != nil {
		return false, fmt.Errorf("sqliteInvitationRepository.Reactivate: %w", err)
	}
	return affected(res)
}

func (r *sqliteInvitationRepository) Delete(ctx context.Context, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM allowed_users WHERE userid = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("sqliteInvitationRepository.Delete: %w", err)
	}
	return affected(res)
}

func (r *sqliteInvitationRepository) MarkUsed(ctx context.Context, userID, usedAt string) error {
	query := `UPDATE allowed_users SET used_at = ?
	          WHERE userid = ? AND is_active = 1 AND used_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, usedAt, userID)
	if err != nil {
		return fmt.Errorf("sqliteInvitationRepository.MarkUsed: %w", err)
	}
	ok, err := affected(res)
	if err != nil {
		return fmt.Errorf("sqliteInvitationRepository.MarkUsed: %w", err)
	}
	if !ok {
		return common.NewError(common.ErrConflict, "invitation already used")
	}
	return nil
}
