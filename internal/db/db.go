package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory store.
const MemoryPath = ":memory:"

type pragma struct {
	stmt string
	desc string
}

// Writers on a file store wait up to five seconds for a lock.
var filePragmas = []pragma{
	{"PRAGMA journal_mode = WAL", "setting WAL mode"},
	{"PRAGMA busy_timeout = 5000", "setting busy timeout"},
}

var commonPragmas = []pragma{
	{"PRAGMA foreign_keys = ON", "enabling foreign keys"},
}

// OpenDB opens the neurofit store at path and brings its schema up to date.
//
// MemoryPath keeps everything on a single connection; a second connection to
// ":memory:" would see an empty database. Any other path gets its parent
// directory created and runs in WAL mode.
func OpenDB(path string) (*sql.DB, error) {
	memory := path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}

	pragmas := commonPragmas
	if memory {
		database.SetMaxOpenConns(1)
	} else {
		pragmas = append(append([]pragma{}, filePragmas...), commonPragmas...)
	}

	for _, p := range pragmas {
		if _, err := database.Exec(p.stmt); err != nil {
			database.Close()
			return nil, fmt.Errorf("%s: %w", p.desc, err)
		}
	}

	if err := Migrate(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return database, nil
}
