package storage

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/conorfennell/knolpack/internal/domain"
)

// DB is a read-only view over an exported collection image.
type DB struct {
	conn *sql.DB
	path string
}

// Open copies a collection image to a temporary file and opens it.
// Close removes the copy.
func Open(image []byte) (*DB, error) {
	f, err := os.CreateTemp("", "knolpack-*.anki2")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(image); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write collection image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write collection image: %w", err)
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &DB{conn: db, path: path}, nil
}

// Close closes the database connection and removes the temporary copy.
func (db *DB) Close() error {
	err := db.conn.Close()
	if rmErr := os.Remove(db.path); err == nil {
		err = rmErr
	}
	return err
}

// Meta returns the single col row.
func (db *DB) Meta() (*domain.CollectionMeta, error) {
	var m domain.CollectionMeta
	row := db.conn.QueryRow(`
		SELECT id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags
		FROM col
	`)
	err := row.Scan(
		&m.ID,
		&m.Created,
		&m.ModTime,
		&m.SchemaModTime,
		&m.Version,
		&m.Dirty,
		&m.USN,
		&m.LastSync,
		&m.Conf,
		&m.Models,
		&m.Decks,
		&m.DeckConf,
		&m.Tags,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection row: %w", err)
	}
	return &m, nil
}

// CountRows returns the number of rows in table, which must be one of
// col, notes or cards.
func (db *DB) CountRows(table string) (int, error) {
	switch table {
	case "col", "notes", "cards":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	if err := db.conn.QueryRow("SELECT count(*) FROM " + table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// Notes returns every note ordered by id.
func (db *DB) Notes() ([]domain.Note, error) {
	rows, err := db.conn.Query(`
		SELECT id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data
		FROM notes ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		var csum int64
		if err := rows.Scan(
			&n.ID,
			&n.GUID,
			&n.ModelID,
			&n.ModTime,
			&n.USN,
			&n.Tags,
			&n.Fields,
			&n.SortField,
			&csum,
			&n.Flags,
			&n.Data,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		n.Checksum = uint32(csum)
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Cards returns every card ordered by id.
func (db *DB) Cards() ([]domain.CardRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data
		FROM cards ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.CardRow
	for rows.Next() {
		var c domain.CardRow
		if err := rows.Scan(
			&c.ID,
			&c.NoteID,
			&c.DeckID,
			&c.Ordinal,
			&c.ModTime,
			&c.USN,
			&c.Type,
			&c.Queue,
			&c.Due,
			&c.Interval,
			&c.Factor,
			&c.Reps,
			&c.Lapses,
			&c.Left,
			&c.ODue,
			&c.ODid,
			&c.Flags,
			&c.Data,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
