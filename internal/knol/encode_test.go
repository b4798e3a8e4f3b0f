package knol

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/conorfennell/knolpack/internal/domain"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestEncode(t *testing.T) {
	cards := []domain.Card{
		{Front: "France", Back: "Paris"},
		{Front: "Japan", Back: "Tokyo"},
		{Front: "", Back: ""},
		{Front: "tab\there", Back: "line\nbreak & <b>html</b>"},
	}

	enc := NewEncoder(rand.New(rand.NewSource(1)))
	notes, rows, err := enc.Encode(cards, domain.DefaultModelID, domain.DefaultDeckID, 1700000000)
	if err != nil {
		t.Fatalf("Encode() returned an unexpected error: %v", err)
	}

	if len(notes) != len(cards) || len(rows) != len(cards) {
		t.Fatalf("Expected %d notes and cards, got %d and %d", len(cards), len(notes), len(rows))
	}

	seen := make(map[string]bool)
	for i, n := range notes {
		wantID := int64(i + 1)
		if n.ID != wantID || rows[i].ID != wantID {
			t.Errorf("Row %d: expected ids %d, got note=%d card=%d", i, wantID, n.ID, rows[i].ID)
		}
		if rows[i].NoteID != n.ID {
			t.Errorf("Row %d: card points at note %d, want %d", i, rows[i].NoteID, n.ID)
		}
		if rows[i].DeckID != 2 || n.ModelID != 1 {
			t.Errorf("Row %d: expected did=2 mid=1, got did=%d mid=%d", i, rows[i].DeckID, n.ModelID)
		}
		if n.SortField != cards[i].Front {
			t.Errorf("Row %d: sort field %q, want %q", i, n.SortField, cards[i].Front)
		}
		if n.Checksum != Checksum(cards[i].Front) {
			t.Errorf("Row %d: checksum %d does not match front", i, n.Checksum)
		}

		parts := strings.Split(n.Fields, domain.FieldSeparator)
		if len(parts) != 2 || parts[0] != cards[i].Front || parts[1] != cards[i].Back {
			t.Errorf("Row %d: fields %q do not split back into the card", i, n.Fields)
		}

		if seen[n.GUID] {
			t.Errorf("Row %d: duplicate guid %s", i, n.GUID)
		}
		seen[n.GUID] = true

		r := rows[i]
		if r.Ordinal != 0 || r.Type != 0 || r.Queue != 0 || r.Due != 0 || r.Interval != 0 ||
			r.Factor != 0 || r.Reps != 0 || r.Lapses != 0 || r.Left != 0 {
			t.Errorf("Row %d: expected fresh scheduling state, got %+v", i, r)
		}
	}
}

func TestEncodeCountersAreSessionScoped(t *testing.T) {
	cards := []domain.Card{{Front: "a", Back: "b"}}

	first := NewEncoder(nil)
	if _, _, err := first.Encode(cards, 1, 2, 0); err != nil {
		t.Fatalf("Encode() returned an unexpected error: %v", err)
	}
	notes, _, err := first.Encode(cards, 1, 2, 0)
	if err != nil {
		t.Fatalf("Encode() returned an unexpected error: %v", err)
	}
	if notes[0].ID != 2 {
		t.Errorf("Expected the same encoder to continue at 2, got %d", notes[0].ID)
	}

	notes, _, err = NewEncoder(nil).Encode(cards, 1, 2, 0)
	if err != nil {
		t.Fatalf("Encode() returned an unexpected error: %v", err)
	}
	if notes[0].ID != 1 {
		t.Errorf("Expected a new encoder to start at 1, got %d", notes[0].ID)
	}
}

func TestEncodeSeededGUIDs(t *testing.T) {
	cards := []domain.Card{{Front: "France", Back: "Paris"}, {Front: "Japan", Back: "Tokyo"}}

	a, _, err := NewEncoder(rand.New(rand.NewSource(42))).Encode(cards, 1, 2, 0)
	if err != nil {
		t.Fatalf("Encode() returned an unexpected error: %v", err)
	}
	b, _, err := NewEncoder(rand.New(rand.NewSource(42))).Encode(cards, 1, 2, 0)
	if err != nil {
		t.Fatalf("Encode() returned an unexpected error: %v", err)
	}
	for i := range a {
		if a[i].GUID != b[i].GUID {
			t.Errorf("Expected equal seeds to give equal guids, got %s and %s", a[i].GUID, b[i].GUID)
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	notes, rows, err := NewEncoder(nil).Encode(nil, 1, 2, 0)
	if err != nil {
		t.Fatalf("Encode() returned an unexpected error: %v", err)
	}
	if len(notes) != 0 || len(rows) != 0 {
		t.Errorf("Expected no rows, got %d notes and %d cards", len(notes), len(rows))
	}
}

func TestEncodeRandomSourceFailure(t *testing.T) {
	_, _, err := NewEncoder(failingReader{}).Encode([]domain.Card{{Front: "a"}}, 1, 2, 0)
	if !errors.Is(err, ErrRandomSource) {
		t.Errorf("Expected ErrRandomSource, got %v", err)
	}
}
