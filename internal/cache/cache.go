// Package cache persists a scanned tree to a SQLite file so it can be
// reloaded without rescanning. A cache write failure is terminal for that
// write and reported upward; it never affects the running session.
package cache

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/seliv/dirscope/internal/tree"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens a cache file and brings its schema up to date.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache schema: %w", err)
	}
	return db, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	err = m.Up()
	if err == migrate.ErrNoChange {
		return nil
	}
	return err
}

// Write replaces the cache content with the given tree in one transaction.
func Write(db *sql.DB, t *tree.Tree) error {
	top := t.FirstToplevel()
	if top == nil {
		return fmt.Errorf("write cache: empty tree")
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := writeTx(tx, t.URL(), top); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func writeTx(tx *sql.Tx, url string, top *tree.Item) error {
	for _, stmt := range []string{
		"DELETE FROM items",
		"DELETE FROM meta",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES ('url', ?)", url); err != nil {
		return err
	}
	ins, err := tx.Prepare(`INSERT INTO items
		(parent_id, name, kind, size, mtime, mount_point, excluded, read_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ins.Close()

	var insert func(it *tree.Item, parentID sql.NullInt64) error
	insert = func(it *tree.Item, parentID sql.NullInt64) error {
		res, err := ins.Exec(parentID, it.Name, int(it.Kind), it.Size,
			it.MTime.Unix(), it.MountPoint, it.Excluded, int(it.ReadState))
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		childID := sql.NullInt64{Int64: id, Valid: true}
		for _, c := range it.Children {
			if err := insert(c, childID); err != nil {
				return err
			}
		}
		return nil
	}
	return insert(top, sql.NullInt64{})
}

// Read rebuilds a tree from the cache.
func Read(db *sql.DB) (*tree.Tree, error) {
	var url string
	if err := db.QueryRow("SELECT value FROM meta WHERE key = 'url'").Scan(&url); err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	rows, err := db.Query(`SELECT id, parent_id, name, kind, size, mtime,
		mount_point, excluded, read_state FROM items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := map[int64]*tree.Item{}
	var top *tree.Item
	for rows.Next() {
		var (
			id       int64
			parentID sql.NullInt64
			it       tree.Item
			kind     int
			mtime    int64
			state    int
		)
		if err := rows.Scan(&id, &parentID, &it.Name, &kind, &it.Size, &mtime,
			&it.MountPoint, &it.Excluded, &state); err != nil {
			return nil, err
		}
		it.Kind = tree.Kind(kind)
		it.ReadState = tree.ReadState(state)
		it.MTime = timeFromUnix(mtime)
		node := &it
		items[id] = node
		if !parentID.Valid {
			top = node
		} else if parent, ok := items[parentID.Int64]; ok {
			parent.AddChild(node)
		} else {
			return nil, fmt.Errorf("read cache: orphaned item %d", id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if top == nil {
		return nil, fmt.Errorf("read cache: no toplevel item")
	}

	t := tree.New(url, top)
	t.Finalize()
	return t, nil
}

func timeFromUnix(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
