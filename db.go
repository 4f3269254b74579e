package gif2anim

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Cache stores finished containers keyed by the SHA-1 of the source file and
// the format tag.
type Cache struct {
	db *sql.DB
}

// NewCache opens or creates the SQLite cache at file.
func NewCache(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (source_id INTEGER NOT NULL, format TEXT NOT NULL, container BLOB NOT NULL, UNIQUE(source_id, format), FOREIGN KEY(source_id) REFERENCES source(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) addSource(sha string) (int64, error) {
	var id int64
	switch err := c.db.QueryRow("SELECT id FROM source WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := c.db.Exec("INSERT INTO source (sha1) VALUES (?)", sha)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Store saves the container b converted from the source with the given SHA-1
// for format tag, replacing any previous entry.
func (c *Cache) Store(sha, tag string, b []byte) error {
	id, err := c.addSource(sha)
	if err != nil {
		return err
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO conversion (source_id, format, container) VALUES (?, ?, ?)", id, tag, b); err != nil {
		return err
	}
	return nil
}

// Find returns the cached container, or nil if there isn't one.
func (c *Cache) Find(sha, tag string) ([]byte, error) {
	var b []byte
	switch err := c.db.QueryRow("SELECT c.container FROM conversion AS c JOIN source AS s ON c.source_id = s.id WHERE s.sha1 = ? AND c.format = ?", sha, tag).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return b, nil
	default:
		return nil, err
	}
}
