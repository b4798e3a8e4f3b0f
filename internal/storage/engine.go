package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

const driverName = "sqlite"

var (
	// ErrNotInitialized is returned when the engine is used before Init succeeded.
	ErrNotInitialized = errors.New("sqlite engine not initialized")
	// ErrInit wraps the failure of an initialization attempt.
	ErrInit = errors.New("sqlite engine failed to load")
)

// Engine gates use of the embedded SQLite runtime behind a one-time load.
// Concurrent Init calls share a single attempt; a failed attempt can be
// retried with another Init.
type Engine struct {
	load func() (string, error)

	mu      sync.Mutex
	ready   bool
	version string
	pending *attempt
}

type attempt struct {
	done chan struct{}
	err  error
}

// Default is the process-wide engine.
var Default = NewEngine()

// NewEngine returns an engine that has not been initialized yet.
func NewEngine() *Engine {
	return &Engine{load: probe}
}

// Init loads the runtime once. Callers arriving while a load is in
// flight wait for it and receive its result.
func (e *Engine) Init() error {
	e.mu.Lock()
	if e.ready {
		e.mu.Unlock()
		return nil
	}
	if a := e.pending; a != nil {
		e.mu.Unlock()
		<-a.done
		return a.err
	}
	a := &attempt{done: make(chan struct{})}
	e.pending = a
	e.mu.Unlock()

	version, err := e.load()

	e.mu.Lock()
	if err != nil {
		a.err = fmt.Errorf("%w: %v", ErrInit, err)
		slog.Error("SQLite engine failed to load", "error", err)
	} else {
		e.ready = true
		e.version = version
		slog.Debug("SQLite engine loaded", "version", version)
	}
	e.pending = nil
	e.mu.Unlock()
	close(a.done)

	return a.err
}

// Ready reports whether Init has succeeded.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Version returns the SQLite library version, empty before Init.
func (e *Engine) Version() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// probe opens a throwaway in-memory database to make sure the driver is
// registered and working.
func probe() (string, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var version string
	if err := db.QueryRow("SELECT sqlite_version()").Scan(&version); err != nil {
		return "", fmt.Errorf("failed to query sqlite version: %w", err)
	}
	return version, nil
}
