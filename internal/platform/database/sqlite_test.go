package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	return s
}

// rawDB opens path without running migrations, for building legacy layouts.
func rawDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	return db
}

func columns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	require.NoError(t, err)
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	sort.Strings(cols)
	return cols
}

type schemaEntry struct {
	Name string
	SQL  string
}

func schemaSnapshot(t *testing.T, db *sql.DB) []schemaEntry {
	t.Helper()
	rows, err := db.Query("SELECT name, COALESCE(sql, '') FROM sqlite_master ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()

	var entries []schemaEntry
	for rows.Next() {
		var e schemaEntry
		require.NoError(t, rows.Scan(&e.Name, &e.SQL))
		entries = append(entries, e)
	}
	require.NoError(t, rows.Err())
	return entries
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s := openTestStore(t, path)
	defer s.Close()

	_, err := os.Stat(path)
	require.NoError(t, err, "database file was not created")

	assert.Equal(t, []string{"id", "ingredients", "notes", "steps", "title"}, columns(t, s.DB(), "recipe"))
	assert.Equal(t, []string{"password", "role", "unum", "userid"}, columns(t, s.DB(), "user"))
	assert.Equal(t,
		[]string{"email", "id", "invited_at", "is_active", "role", "used_at", "userid"},
		columns(t, s.DB(), "allowed_users"))

	version, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(context.Background(), "/nonexistent/dir/test.db")
	assert.Error(t, err)
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	assert.NoError(t, s.Close())
}

func TestOpen_IdempotentSchemaAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1 := openTestStore(t, path)
	_, err := s1.DB().Exec(`INSERT INTO recipe (title, ingredients, steps, notes) VALUES ('Soup', 'water', 'boil', '')`)
	require.NoError(t, err)
	_, err = s1.DB().Exec(`INSERT INTO allowed_users (userid) VALUES ('alice')`)
	require.NoError(t, err)
	before := schemaSnapshot(t, s1.DB())
	require.NoError(t, s1.Close())

	s2 := openTestStore(t, path)
	defer s2.Close()

	assert.Equal(t, before, schemaSnapshot(t, s2.DB()))

	var recipes, invites int
	require.NoError(t, s2.DB().QueryRow("SELECT COUNT(*) FROM recipe").Scan(&recipes))
	require.NoError(t, s2.DB().QueryRow("SELECT COUNT(*) FROM allowed_users").Scan(&invites))
	assert.Equal(t, 1, recipes)
	assert.Equal(t, 1, invites)
}

func TestOpen_MigratesLegacyBodyColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	db := rawDB(t, path)
	_, err := db.Exec(`
		CREATE TABLE recipe (
			id integer primary key autoincrement,
			title text not null,
			body text
		);
		INSERT INTO recipe (id, title, body) VALUES (1, 'Curry', 'rice / roux');
		INSERT INTO recipe (id, title, body) VALUES (4, 'Toast', '');
		INSERT INTO recipe (id, title, body) VALUES (7, 'Tea', NULL);
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s := openTestStore(t, path)
	defer s.Close()

	assert.Equal(t, []string{"id", "ingredients", "notes", "steps", "title"}, columns(t, s.DB(), "recipe"))

	rows, err := s.DB().Query("SELECT id, title, ingredients, steps, notes FROM recipe ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		ID                                int64
		Title, Ingredients, Steps, Notes string
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.ID, &r.Title, &r.Ingredients, &r.Steps, &r.Notes))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []row{
		{1, "Curry", "rice / roux", "", ""},
		{4, "Toast", "", "", ""},
		{7, "Tea", "", "", ""},
	}, got)
}

func TestOpen_PrefersIngredientsOverBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	db := rawDB(t, path)
	_, err := db.Exec(`
		CREATE TABLE recipe (
			id integer primary key autoincrement,
			title text not null,
			ingredients text,
			steps text,
			notes text,
			body text
		);
		INSERT INTO recipe (title, ingredients, steps, notes, body) VALUES ('A', 'eggs', 'mix', 'n1', 'old');
		INSERT INTO recipe (title, ingredients, steps, notes, body) VALUES ('B', '', 'fry', 'n2', 'flour');
		INSERT INTO recipe (title, ingredients, steps, notes, body) VALUES ('C', '', '', '', '');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s := openTestStore(t, path)
	defer s.Close()

	assert.NotContains(t, columns(t, s.DB(), "recipe"), "body")

	got := map[string][3]string{}
	rows, err := s.DB().Query("SELECT title, ingredients, steps, notes FROM recipe")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var title, ingredients, steps, notes string
		require.NoError(t, rows.Scan(&title, &ingredients, &steps, &notes))
		got[title] = [3]string{ingredients, steps, notes}
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, [3]string{"eggs", "mix", "n1"}, got["A"])
	assert.Equal(t, [3]string{"flour", "fry", "n2"}, got["B"])
	assert.Equal(t, [3]string{"", "", ""}, got["C"])
}

func TestOpen_LegacyMigrationIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	db := rawDB(t, path)
	_, err := db.Exec(`
		CREATE TABLE recipe (id integer primary key autoincrement, title text not null, body text);
		INSERT INTO recipe (title, body) VALUES ('Curry', 'rice');
		INSERT INTO recipe (title, body) VALUES ('Stew', 'beef');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s1 := openTestStore(t, path)
	first := schemaSnapshot(t, s1.DB())
	require.NoError(t, s1.Close())

	s2 := openTestStore(t, path)
	defer s2.Close()
	assert.Equal(t, first, schemaSnapshot(t, s2.DB()))

	var count int
	require.NoError(t, s2.DB().QueryRow("SELECT COUNT(*) FROM recipe").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestOpen_BackfillsUserRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	db := rawDB(t, path)
	_, err := db.Exec(`
		CREATE TABLE user (
			unum integer primary key autoincrement,
			userid text not null unique,
			password text not null
		);
		INSERT INTO user (userid, password) VALUES ('alice', 'x');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s := openTestStore(t, path)
	defer s.Close()

	var role string
	require.NoError(t, s.DB().QueryRow("SELECT role FROM user WHERE userid = 'alice'").Scan(&role))
	assert.Equal(t, "member", role)
}

func TestAcquire_ReturnsUsableConnection(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	defer s.Close()

	ctx := context.Background()
	conn, err := s.Acquire(ctx)
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx, "INSERT INTO recipe (title) VALUES ('x')")
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM recipe").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestOpen_LegacyMigrationKeepsDeletedIDsRetired(t *testing.T) {
	tests := []struct {
		name    string
		deletes string
		wantID  int64
	}{
		{"highest id deleted", "DELETE FROM recipe WHERE id = 3", 4},
		{"every row deleted", "DELETE FROM recipe", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "legacy.db")

			db := rawDB(t, path)
			_, err := db.Exec(`
				CREATE TABLE recipe (id integer primary key autoincrement, title text not null, body text);
				INSERT INTO recipe (title, body) VALUES ('A', 'a');
				INSERT INTO recipe (title, body) VALUES ('B', 'b');
				INSERT INTO recipe (title, body) VALUES ('C', 'c');
			`)
			require.NoError(t, err)
			_, err = db.Exec(tt.deletes)
			require.NoError(t, err)
			require.NoError(t, db.Close())

			s := openTestStore(t, path)
			defer s.Close()
			require.NotContains(t, columns(t, s.DB(), "recipe"), "body")

			res, err := s.DB().Exec("INSERT INTO recipe (title) VALUES ('D')")
			require.NoError(t, err)
			id, err := res.LastInsertId()
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
