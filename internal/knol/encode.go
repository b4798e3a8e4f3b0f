package knol

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/conorfennell/knolpack/internal/domain"
	"github.com/google/uuid"
)

// ErrRandomSource is returned when the encoder cannot draw a GUID.
var ErrRandomSource = errors.New("random source failed")

// Encoder turns cards into note and card rows. It owns the id counters
// for one export and must not be shared between exports.
type Encoder struct {
	random     io.Reader
	nextNoteID int64
	nextCardID int64
}

// NewEncoder creates an encoder drawing GUIDs from r. A nil r uses
// crypto/rand.
func NewEncoder(r io.Reader) *Encoder {
	if r == nil {
		r = rand.Reader
	}
	return &Encoder{random: r, nextNoteID: 1, nextCardID: 1}
}

// Encode emits one note and one card per input card, in input order.
func (e *Encoder) Encode(cards []domain.Card, modelID, deckID, now int64) ([]domain.Note, []domain.CardRow, error) {
	notes := make([]domain.Note, 0, len(cards))
	rows := make([]domain.CardRow, 0, len(cards))

	for _, c := range cards {
		guid, err := uuid.NewRandomFromReader(e.random)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
		}

		noteID := e.nextNoteID
		e.nextNoteID++
		cardID := e.nextCardID
		e.nextCardID++

		notes = append(notes, domain.Note{
			ID:        noteID,
			GUID:      guid.String(),
			ModelID:   modelID,
			ModTime:   now,
			Fields:    c.Front + domain.FieldSeparator + c.Back,
			SortField: c.Front,
			Checksum:  Checksum(c.Front),
		})
		rows = append(rows, domain.CardRow{
			ID:      cardID,
			NoteID:  noteID,
			DeckID:  deckID,
			ModTime: now,
		})
	}

	return notes, rows, nil
}
