package service

import (
	"context"
	"strings"
	"recipe_memo/internal/common"
	"recipe_memo/internal/common/dbx"
	"recipe_memo/internal/domain/model"
	"recipe_memo/internal/domain/repository"
)

type RecipeService struct {
	repos repository.Factory
}

func NewRecipeService(repos repository.Factory) *RecipeService {
	return &RecipeService{repos: repos}
}

// RecipeRequest is the create/update payload. A nil field was absent or
// JSON null.
type RecipeRequest struct {
	Title       *string `json:"title"`
	Ingredients *string `json:"ingredients"`
	Steps       *string `json:"steps"`
	Notes       *string `json:"notes"`
}

type DeleteRecipeResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

// Validate trims the payload into a recipe. Title is required; the other
// fields default to "".
func (req RecipeRequest) Validate() (*model.Recipe, error) {
	if req.Title == nil {
		return nil, common.NewError(common.ErrBadRequest, "title is required")
	}
	return &model.Recipe{
		Title:       strings.TrimSpace(*req.Title),
		Ingredients: trimmedOrEmpty(req.Ingredients),
		Steps:       trimmedOrEmpty(req.Steps),
		Notes:       trimmedOrEmpty(req.Notes),
	}, nil
}

func trimmedOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (s *RecipeService) List(ctx context.Context, db dbx.DBTX) ([]model.Recipe, error) {
	return s.repos.Recipes(db).List(ctx)
}

func (s *RecipeService) Get(ctx context.Context, db dbx.DBTX, id int64) (*model.Recipe, error) {
	return s.repos.Recipes(db).FindByID(ctx, id)
}

func (s *RecipeService) Create(ctx context.Context, db dbx.DBTX, req RecipeRequest) (*model.Recipe, error) {
	recipe, err := req.Validate()
	if err != nil {
		return nil, err
	}
	recipes := s.repos.Recipes(db)
	if err := recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return recipes.FindByID(ctx, recipe.ID)
}

// Update overwrites all four fields of an existing recipe.
func (s *RecipeService) Update(ctx context.Context, db dbx.DBTX, id int64, req RecipeRequest) (*model.Recipe, error) {
	recipe, err := req.Validate()
	if err != nil {
		return nil, err
	}
	recipe.ID = id
	recipes := s.repos.Recipes(db)
	if err := recipes.Update(ctx, recipe); err != nil {
		return nil, err
	}
	return recipes.FindByID(ctx, id)
}

func (s *RecipeService) Delete(ctx context.Context, db dbx.DBTX, id int64) (*DeleteRecipeResponse, error) {
	if err := s.repos.Recipes(db).Delete(ctx, id); err != nil {
		return nil, err
	}
	return &DeleteRecipeResponse{Status: "deleted", ID: id}, nil
}
