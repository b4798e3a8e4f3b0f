package apkg

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/conorfennell/knolpack/internal/domain"
	"github.com/conorfennell/knolpack/internal/storage"
)

// Summary describes the contents of a package.
type Summary struct {
	Version int
	Decks   []string
	Notes   int
	Cards   int
}

// Inspect opens a package and summarizes its collection.
func Inspect(pkg []byte) (*Summary, error) {
	image, err := Unarchive(pkg)
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(image)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	meta, err := db.Meta()
	if err != nil {
		return nil, err
	}
	var decks map[string]domain.Deck
	if err := json.Unmarshal([]byte(meta.Decks), &decks); err != nil {
		return nil, fmt.Errorf("failed to decode deck registry: %w", err)
	}

	s := &Summary{Version: meta.Version}
	for _, d := range decks {
		s.Decks = append(s.Decks, d.Name)
	}
	sort.Strings(s.Decks)

	if s.Notes, err = db.CountRows("notes"); err != nil {
		return nil, err
	}
	if s.Cards, err = db.CountRows("cards"); err != nil {
		return nil, err
	}
	return s, nil
}
