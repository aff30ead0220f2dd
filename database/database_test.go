package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	sql := `
-- header comment
CREATE TABLE a (x TEXT DEFAULT 'semi;colon');
INSERT INTO a (x) VALUES ('it''s');
SELECT 1`

	stmts := splitStatements(sql)

	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE TABLE a (x TEXT DEFAULT 'semi;colon')", stmts[0])
	assert.Equal(t, "INSERT INTO a (x) VALUES ('it''s')", stmts[1])
	assert.Equal(t, "SELECT 1", stmts[2])
}

func TestNew_AppliesEmbeddedMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.db")

	db, err := New(path, Migrations())
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Conn.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('users','sessions','products','product_images')",
	).Scan(&count))
	assert.Equal(t, 4, count)
	require.NoError(t, db.Close())

	// Reopening must not re-run recorded migrations.
	db, err = New(path, Migrations())
	require.NoError(t, err)
	defer db.Close()

	var applied int
	require.NoError(t, db.Conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestNew_FailingMigration(t *testing.T) {
	fsys := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{Data: []byte("CREATE TABLE broken (;")},
	}

	_, err := New(filepath.Join(t.TempDir(), "bad.db"), fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_bad.sql")
}

func TestWithTx(t *testing.T) {
	fsys := fstest.MapFS{
		"001_t.sql": &fstest.MapFile{Data: []byte("CREATE TABLE t (v TEXT);")},
	}
	db, err := New(filepath.Join(t.TempDir(), "tx.db"), fsys)
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		err := WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "INSERT INTO t (v) VALUES ('kept')")
			return err
		})
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, "INSERT INTO t (v) VALUES ('dropped')"); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})

	var values []string
	rows, err := db.Conn.Query("SELECT v FROM t")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var v string
		require.NoError(t, rows.Scan(&v))
		values = append(values, v)
	}
	assert.Equal(t, []string{"kept"}, values)
}
