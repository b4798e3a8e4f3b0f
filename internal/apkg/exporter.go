// Package apkg exports question/answer pairs as an importable .apkg
// package: a zip archive holding a single SQLite collection.
package apkg

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/conorfennell/knolpack/internal/deckconf"
	"github.com/conorfennell/knolpack/internal/domain"
	"github.com/conorfennell/knolpack/internal/knol"
	"github.com/conorfennell/knolpack/internal/model"
	"github.com/conorfennell/knolpack/internal/storage"
	"github.com/conorfennell/knolpack/internal/template"
)

// ErrEmptyDeckName is returned when an exporter is created without a deck name.
var ErrEmptyDeckName = errors.New("deck name is empty")

// Exporter collects cards for one deck and builds its package.
type Exporter struct {
	engine   *storage.Engine
	deckName string
	template template.Descriptor
	now      func() time.Time
	random   io.Reader
	log      *slog.Logger
	cards    []domain.Card
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithTemplate selects the card layout by name. Unknown names fall back
// to the default layout.
func WithTemplate(name string) Option {
	return func(e *Exporter) { e.template = template.Resolve(name) }
}

// WithClock sets the time source used for creation and modification stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithRandom sets the source GUIDs are drawn from.
func WithRandom(r io.Reader) Option {
	return func(e *Exporter) { e.random = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.log = l }
}

// New creates an exporter for deckName. It fails with
// storage.ErrNotInitialized when engine has not been initialized.
func New(engine *storage.Engine, deckName string, opts ...Option) (*Exporter, error) {
	if !engine.Ready() {
		return nil, storage.ErrNotInitialized
	}
	if strings.TrimSpace(deckName) == "" {
		return nil, ErrEmptyDeckName
	}
	e := &Exporter{
		engine:   engine,
		deckName: deckName,
		template: template.Resolve(template.Basic),
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// AddCard appends a card. Cards are exported in the order they were added.
func (e *Exporter) AddCard(front, back string) {
	e.cards = append(e.cards, domain.Card{Front: front, Back: back})
}

// FileName returns the recommended file name of the package.
func (e *Exporter) FileName() string {
	return FileName(e.deckName)
}

// Export builds the package. Any failure aborts the whole export and no
// bytes are returned.
func (e *Exporter) Export() ([]byte, error) {
	now := e.now().Unix()
	deckID, modelID := domain.DefaultDeckID, domain.DefaultModelID

	m := model.Build(modelID, deckID, now, e.template)
	blobs, err := deckconf.Build(deckID, e.deckName, m, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build collection config: %w", err)
	}
	e.log.Debug("collection config built", "deck", e.deckName, "template", e.template.Name)

	notes, rows, err := knol.NewEncoder(e.random).Encode(e.cards, modelID, deckID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cards: %w", err)
	}
	e.log.Debug("cards encoded", "notes", len(notes), "cards", len(rows))

	image, err := e.engine.Build(deckconf.Meta(blobs, now), notes, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build collection: %w", err)
	}
	e.log.Debug("collection image exported", "bytes", len(image))

	pkg, err := Archive(image)
	if err != nil {
		return nil, err
	}

	e.log.Info("deck exported", "deck", e.deckName, "notes", len(notes), "bytes", len(pkg))
	return pkg, nil
}

// Export is the one-shot form of New, AddCard and Export.
func Export(engine *storage.Engine, deckName string, cards []domain.Card, opts ...Option) ([]byte, error) {
	e, err := New(engine, deckName, opts...)
	if err != nil {
		return nil, err
	}
	for _, c := range cards {
		e.AddCard(c.Front, c.Back)
	}
	return e.Export()
}
