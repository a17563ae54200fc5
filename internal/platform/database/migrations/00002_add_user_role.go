package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddUserRole, downAddUserRole)
}

// upAddUserRole back-fills the role column on user tables created before
// roles existed.
func upAddUserRole(ctx context.Context, tx *sql.Tx) error {
	cols, err := tableColumns(ctx, tx, "user")
	if err != nil {
		return err
	}
	if cols["role"] {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "ALTER TABLE user ADD COLUMN role TEXT NOT NULL DEFAULT 'member'"); err != nil {
		return fmt.Errorf("add user.role: %w", err)
	}
	return nil
}

func downAddUserRole(ctx context.Context, tx *sql.Tx) error {
	return nil
}
