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

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUserID(ctx context.Context, userID string) (*model.User, error)
	Exists(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateRole(ctx context.Context, userID, role string) (bool, error)
}

type sqliteUserRepository struct {
	db dbx.DBTX
}

func NewSQLiteUserRepository(db dbx.DBTX) UserRepository {
	return &sqliteUserRepository{db: db}
}

func (r *sqliteUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO user (userid, password, role) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.UserID, user.HashedPassword, user.Role)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.NewError(common.ErrConflict, "userid already exists")
		}
		return fmt.Errorf("sqliteUserRepository.Create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqliteUserRepository.Create: %w", err)
	}
	user.Unum = id
	return nil
}

func (r *sqliteUserRepository) FindByUserID(ctx context.Context, userID string) (*model.User, error) {
	query := `SELECT unum, userid, password, role FROM user WHERE userid = ?`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.Unum, &user.UserID, &user.HashedPassword, &user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqliteUserRepository.FindByUserID: %w", err)
	}
	return user, nil
}

func (r *sqliteUserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM user WHERE userid = ?`, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("sqliteUserRepository.Exists: %w", err)
	}
	return true, nil
}

func (r *sqliteUserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT unum, userid, role FROM user ORDER BY userid`)
	if err != nil {
		return nil, fmt.Errorf("sqliteUserRepository.List: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.Unum, &u.UserID, &u.Role); err != nil {
			return nil, fmt.Errorf("sqliteUserRepository.List: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *sqliteUserRepository) UpdateRole(ctx context.Context, userID, role string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE user SET role = ? WHERE userid = ?`, role, userID)
	if err != nil {
		return false, fmt.Errorf("sqliteUserRepository.UpdateRole: %w", err)
	}
	return affected(res)
}

// affected reports whether a statement touched at least one row.
func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
