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

type RecipeRepository interface {
	List(ctx context.Context) ([]model.Recipe, error)
	FindByID(ctx context.Context, id int64) (*model.Recipe, error)
	Create(ctx context.Context, recipe *model.Recipe) error
	Update(ctx context.Context, recipe *model.Recipe) error
	Delete(ctx context.Context, id int64) error
}

type sqliteRecipeRepository struct {
	db dbx.DBTX
}

func NewSQLiteRecipeRepository(db dbx.DBTX) RecipeRepository {
	return &sqliteRecipeRepository{db: db}
}

// Rows migrated from older layouts may hold NULL text columns.
const recipeColumns = `id, title, COALESCE(ingredients, ''), COALESCE(steps, ''), COALESCE(notes, '')`

var errRecipeNotFound = common.NewError(common.ErrNotFound, "recipe not found")

func (r *sqliteRecipeRepository) List(ctx context.Context) ([]model.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recipeColumns+` FROM recipe`)
	if err != nil {
		return nil, fmt.Errorf("sqliteRecipeRepository.List: %w", err)
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		var rc model.Recipe
		if err := rows.Scan(&rc.ID, &rc.Title, &rc.Ingredients, &rc.Steps, &rc.Notes); err != nil {
			return nil, fmt.Errorf("sqliteRecipeRepository.List: %w", err)
		}
		recipes = append(recipes, rc)
	}
	return recipes, rows.Err()
}

func (r *sqliteRecipeRepository) FindByID(ctx context.Context, id int64) (*model.Recipe, error) {
	rc := &model.Recipe{}
	err := r.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipe WHERE id = ?`, id).Scan(
		&rc.ID, &rc.Title, &rc.Ingredients, &rc.Steps, &rc.Notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errRecipeNotFound
		}
		return nil, fmt.Errorf("sqliteRecipeRepository.FindByID: %w", err)
	}
	return rc, nil
}

func (r *sqliteRecipeRepository) Create(ctx context.Context, rc *model.Recipe) error {
	query := `INSERT INTO recipe (title, ingredients, steps, notes) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, rc.Title, rc.Ingredients, rc.Steps, rc.Notes)
	if err != nil {
		return fmt.Errorf("sqliteRecipeRepository.Create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqliteRecipeRepository.Create: %w", err)
	}
	rc.ID = id
	return nil
}

func (r *sqliteRecipeRepository) Update(ctx context.Context, rc *model.Recipe) error {
	query := `UPDATE recipe SET title = ?, ingredients = ?, steps = ?, notes = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, rc.Title, rc.Ingredients, rc.Steps, rc.Notes, rc.ID)
	if err != nil {
		return fmt.Errorf("sqliteRecipeRepository.Update: %w", err)
	}
	ok, err := affected(res)
	if err != nil {
		return fmt.Errorf("sqliteRecipeRepository.Update: %w", err)
	}
	if !ok {
		return errRecipeNotFound
	}
	return nil
}

func (r *sqliteRecipeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipe WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqliteRecipeRepository.Delete: %w", err)
	}
	ok, err := affected(res)
	if err != nil {
		return fmt.Errorf("sqliteRecipeRepository.Delete: %w", err)
	}
	if !ok {
		return errRecipeNotFound
	}
	return nil
}
