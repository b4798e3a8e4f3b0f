package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conorfennell/knolpack/internal/domain"
)

// serializer is implemented by driver connections that can dump the main
// database as a byte image.
type serializer interface {
	Serialize() ([]byte, error)
}

var errNoSerializer = errors.New("driver connection cannot serialize")

// Build creates a private in-memory collection, fills it and returns the
// database image. Nothing is written to durable storage, and the database
// is discarded before Build returns.
func (e *Engine) Build(meta domain.CollectionMeta, notes []domain.Note, cards []domain.CardRow) ([]byte, error) {
	if !e.Ready() {
		return nil, ErrNotInitialized
	}
	ctx := context.Background()

	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Every statement has to run on this connection: each new connection
	// to :memory: would see an empty database.
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	if err := insertRows(ctx, conn, meta, notes, cards); err != nil {
		return nil, err
	}

	return exportImage(ctx, conn)
}

func insertRows(ctx context.Context, conn *sql.Conn, meta domain.CollectionMeta, notes []domain.Note, cards []domain.CardRow) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertCol,
		meta.ID,
		meta.Created,
		meta.ModTime,
		meta.SchemaModTime,
		meta.Version,
		meta.Dirty,
		meta.USN,
		meta.LastSync,
		meta.Conf,
		meta.Models,
		meta.Decks,
		meta.DeckConf,
		meta.Tags,
	)
	if err != nil {
		return fmt.Errorf("failed to insert collection row: %w", err)
	}

	noteStmt, err := tx.PrepareContext(ctx, insertNote)
	if err != nil {
		return fmt.Errorf("failed to prepare note insert: %w", err)
	}
	defer noteStmt.Close()

	for _, n := range notes {
		_, err := noteStmt.ExecContext(ctx,
			n.ID,
			n.GUID,
			n.ModelID,
			n.ModTime,
			n.USN,
			n.Tags,
			n.Fields,
			n.SortField,
			int64(n.Checksum),
			n.Flags,
			n.Data,
		)
		if err != nil {
			return fmt.Errorf("failed to insert note %d: %w", n.ID, err)
		}
	}

	cardStmt, err := tx.PrepareContext(ctx, insertCard)
	if err != nil {
		return fmt.Errorf("failed to prepare card insert: %w", err)
	}
	defer cardStmt.Close()

	for _, c := range cards {
		_, err := cardStmt.ExecContext(ctx,
			c.ID,
			c.NoteID,
			c.DeckID,
			c.Ordinal,
			c.ModTime,
			c.USN,
			c.Type,
			c.Queue,
			c.Due,
			c.Interval,
			c.Factor,
			c.Reps,
			c.Lapses,
			c.Left,
			c.ODue,
			c.ODid,
			c.Flags,
			c.Data,
		)
		if err != nil {
			return fmt.Errorf("failed to insert card %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rows: %w", err)
	}
	return nil
}

// exportImage returns the bytes of the main database. It uses the driver's
// serializer when available and otherwise vacuums into a temporary file.
func exportImage(ctx context.Context, conn *sql.Conn) ([]byte, error) {
	var image []byte
	err := conn.Raw(func(driverConn any) error {
		s, ok := driverConn.(serializer)
		if !ok {
			return errNoSerializer
		}
		var err error
		image, err = s.Serialize()
		return err
	})
	if errors.Is(err, errNoSerializer) {
		return vacuumInto(ctx, conn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to serialize database: %w", err)
	}
	return image, nil
}

func vacuumInto(ctx context.Context, conn *sql.Conn) ([]byte, error) {
	dir, err := os.MkdirTemp("", "knolpack-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "collection.db")
	if _, err := conn.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return nil, fmt.Errorf("failed to vacuum database: %w", err)
	}
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database image: %w", err)
	}
	return image, nil
}
