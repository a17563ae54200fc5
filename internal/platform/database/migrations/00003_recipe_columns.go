package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upRecipeColumns, downRecipeColumns)
}

var requiredRecipeColumns = []string{"id", "title", "ingredients", "steps", "notes"}

// RecipeNeedsRewrite reports whether a recipe table with the given columns
// has to be rebuilt into the current layout.
func RecipeNeedsRewrite(cols map[string]bool) bool {
	if cols["body"] {
		return true
	}
	for _, c := range requiredRecipeColumns {
		if !cols[c] {
			return true
		}
	}
	return false
}

// ingredientsExpr picks ingredients from whichever of ingredients and the
// legacy body column is non-empty, ingredients first.
func ingredientsExpr(cols map[string]bool) string {
	switch {
	case cols["ingredients"] && cols["body"]:
		return "COALESCE(NULLIF(ingredients,''), NULLIF(body,''), '')"
	case cols["ingredients"]:
		return "COALESCE(NULLIF(ingredients,''), '')"
	case cols["body"]:
		return "COALESCE(NULLIF(body,''), '')"
	default:
		return "''"
	}
}

func columnOrEmpty(cols map[string]bool, name string) string {
	if cols[name] {
		return name
	}
	return "''"
}

// upRecipeColumns rebuilds recipe through the recipe__new shadow table when
// its layout is a legacy one.
func upRecipeColumns(ctx context.Context, tx *sql.Tx) error {
	cols, err := tableColumns(ctx, tx, "recipe")
	if err != nil {
		return err
	}
	if !RecipeNeedsRewrite(cols) {
		return nil
	}

	// Dropping recipe discards its AUTOINCREMENT counter; carry it over so
	// ids of deleted recipes are not handed out again.
	lastSeq, err := recipeSequence(ctx, tx)
	if err != nil {
		return err
	}

	stmts := []string{
		"DROP TABLE IF EXISTS recipe__new",
		`CREATE TABLE recipe__new (
    id integer primary key autoincrement,
    title text not null,
    ingredients text,
    steps text,
    notes text
)`,
		fmt.Sprintf(`INSERT INTO recipe__new (id, title, ingredients, steps, notes)
SELECT id,
       title,
       %s AS ingredients,
       %s AS steps,
       %s AS notes
FROM recipe`, ingredientsExpr(cols), columnOrEmpty(cols, "steps"), columnOrEmpty(cols, "notes")),
		"DROP TABLE recipe",
		"ALTER TABLE recipe__new RENAME TO recipe",
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("rewrite recipe table: %w", err)
		}
	}
	return restoreRecipeSequence(ctx, tx, lastSeq)
}

// recipeSequence returns recipe's sqlite_sequence counter, 0 when it has
// none (the table was not AUTOINCREMENT or never had a row).
func recipeSequence(ctx context.Context, tx *sql.Tx) (int64, error) {
	var exists int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("look up sqlite_sequence: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var seq int64
	err = tx.QueryRowContext(ctx, "SELECT seq FROM sqlite_sequence WHERE name = 'recipe'").Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read recipe sequence: %w", err)
	}
	return seq, nil
}

// restoreRecipeSequence raises the rebuilt table's counter to at least seq.
func restoreRecipeSequence(ctx context.Context, tx *sql.Tx, seq int64) error {
	if seq <= 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE sqlite_sequence SET seq = MAX(seq, ?) WHERE name = 'recipe'", seq)
	if err != nil {
		return fmt.Errorf("restore recipe sequence: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("restore recipe sequence: %w", err)
	}
	if n > 0 {
		return nil
	}
	// No rows were copied, so the new table has no counter yet.
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO sqlite_sequence (name, seq) VALUES ('recipe', ?)", seq); err != nil {
		return fmt.Errorf("restore recipe sequence: %w", err)
	}
	return nil
}

func downRecipeColumns(ctx context.Context, tx *sql.Tx) error {
	return nil
}
