package repository

import "recipe_memo/internal/common/dbx"

// Factory binds repositories to a database handle. The HTTP surface hands it
// the connection it holds for the current request; the signup flow hands it
// a transaction.
type Factory interface {
	Users(db dbx.DBTX) UserRepository
	Invitations(db dbx.DBTX) InvitationRepository
	Recipes(db dbx.DBTX) RecipeRepository
}

type sqliteFactory struct{}

// NewSQLiteFactory returns the SQLite-backed repository Factory.
func NewSQLiteFactory() Factory {
	return sqliteFactory{}
}

func (sqliteFactory) Users(db dbx.DBTX) UserRepository {
	return NewSQLiteUserRepository(db)
}

func (sqliteFactory) Invitations(db dbx.DBTX) InvitationRepository {
	return NewSQLiteInvitationRepository(db)
}

func (sqliteFactory) Recipes(db dbx.DBTX) RecipeRepository {
	return NewSQLiteRecipeRepository(db)
}
