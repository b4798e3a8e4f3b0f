// Package deckconf builds the JSON documents stored in the col row:
// collection config, deck options, deck registry and model registry.
package deckconf

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/conorfennell/knolpack/internal/domain"
	"github.com/conorfennell/knolpack/internal/model"
)

// Blobs holds the serialized documents for one collection.
type Blobs struct {
	Conf     string
	DeckConf string
	Decks    string
	Models   string
	Tags     string
}

type collectionConf struct {
	CurrentSchema  int   `json:"currentSchema"`
	NextPos        int   `json:"nextPos"`
	LastPos        int   `json:"lastPos"`
	RevCount       int   `json:"revCount"`
	NewCount       int   `json:"newCount"`
	TimeToday      int   `json:"timeToday"`
	LrnToday       int   `json:"lrnToday"`
	RevToday       int   `json:"revToday"`
	TimeLimit      int   `json:"timeLimit"`
	LastDay        int   `json:"lastDay"`
	NextDay        int   `json:"nextDay"`
	LastUpdate     int   `json:"lastUpdate"`
	NextUpdate     int   `json:"nextUpdate"`
	LastStudy      int   `json:"lastStudy"`
	RevBlocked     bool  `json:"revBlocked"`
	NewBlocked     bool  `json:"newBlocked"`
	CurrentDeckID  int64 `json:"currentDeckId"`
	CurrentModelID int64 `json:"currentModelId"`
	Mod            int64 `json:"mod"`
}

type queueConf struct {
	PerDay   int     `json:"perDay"`
	Fuzz     float64 `json:"fuzz"`
	Separate bool    `json:"separate"`
	Order    int     `json:"order"`
	Bury     bool    `json:"bury"`
}

type lapseConf struct {
	LeechFails  int     `json:"leechFails"`
	LeechAction int     `json:"leechAction"`
	MinInterval int     `json:"minInt"`
	Multiplier  float64 `json:"mult"`
	Delays      []int   `json:"delays"`
}

type deckOptions struct {
	ID    int64     `json:"id"`
	Mod   int64     `json:"mod"`
	New   queueConf `json:"new"`
	Rev   queueConf `json:"rev"`
	Lapse lapseConf `json:"lapse"`
}

type deckCommon struct {
	New            int  `json:"new"`
	Rev            int  `json:"rev"`
	Lapse          int  `json:"lapse"`
	Bury           bool `json:"bury"`
	SeparateNewRev bool `json:"separateNewRev"`
	NewSortOrder   int  `json:"newSortOrder"`
	BuryRev        bool `json:"buryRev"`
	SeparateRev    bool `json:"separateRev"`
}

type deckKind struct {
	Name string `json:"name"`
	Type int    `json:"type"`
}

type modelEntry struct {
	domain.Model
	Vers []int    `json:"vers"`
	Tags []string `json:"tags"`
	Did  int64    `json:"did"`
	USN  int      `json:"usn"`
	Req  []any    `json:"req"`
	Mod  int64    `json:"mod"`
}

const (
	newPerDay  = 20
	revPerDay  = 100
	leechFails = 8
)

// Build serializes the four registries for a single deck and model.
// Every registry is keyed by the decimal id so the documents agree with
// the did and mid columns.
func Build(deckID int64, deckName string, m domain.Model, now int64) (Blobs, error) {
	deckKey := strconv.FormatInt(deckID, 10)
	modelKey := strconv.FormatInt(m.ID, 10)

	conf, err := marshal("conf", collectionConf{
		NextPos:        1,
		CurrentSchema:  40,
		CurrentDeckID:  deckID,
		CurrentModelID: m.ID,
		Mod:            now,
	})
	if err != nil {
		return Blobs{}, err
	}

	dconf, err := marshal("dconf", map[string]deckOptions{deckKey: options(deckID, now)})
	if err != nil {
		return Blobs{}, err
	}

	deck, err := NewDeck(deckID, deckName, now)
	if err != nil {
		return Blobs{}, err
	}
	decks, err := marshal("decks", map[string]domain.Deck{deckKey: deck})
	if err != nil {
		return Blobs{}, err
	}

	models, err := marshal("models", map[string]modelEntry{modelKey: {
		Model: m,
		Vers:  []int{},
		Tags:  []string{},
		Did:   deckID,
		Req:   model.Requirements(m),
		Mod:   now,
	}})
	if err != nil {
		return Blobs{}, err
	}

	return Blobs{
		Conf:     conf,
		DeckConf: dconf,
		Decks:    decks,
		Models:   models,
		Tags:     "{}",
	}, nil
}

// options returns the scheduling options of a fresh deck.
func options(deckID, now int64) deckOptions {
	return deckOptions{
		ID:  deckID,
		Mod: now,
		New: queueConf{PerDay: newPerDay, Fuzz: 0.05, Order: 1},
		Rev: queueConf{PerDay: revPerDay, Fuzz: 0.05, Order: 1},
		Lapse: lapseConf{
			LeechFails:  leechFails,
			LeechAction: 1,
			MinInterval: 1,
			Delays:      []int{10, 1440, 86400},
		},
	}
}

// NewDeck builds the deck registry entry. The importer reads common and
// kind as strings holding JSON, so both are marshalled on their own first
// and embedded as text.
func NewDeck(deckID int64, name string, now int64) (domain.Deck, error) {
	common, err := marshal("deck common", deckCommon{
		New:   newPerDay,
		Rev:   revPerDay,
		Lapse: leechFails,
	})
	if err != nil {
		return domain.Deck{}, err
	}
	kind, err := marshal("deck kind", deckKind{Name: "Basic"})
	if err != nil {
		return domain.Deck{}, err
	}
	return domain.Deck{
		ID:      deckID,
		Name:    name,
		ModTime: now,
		Common:  common,
		Kind:    kind,
	}, nil
}

// Meta assembles the col row from the serialized registries.
func Meta(b Blobs, now int64) domain.CollectionMeta {
	return domain.CollectionMeta{
		ID:            1,
		Created:       now,
		ModTime:       now,
		SchemaModTime: now,
		Version:       domain.CollectionVersion,
		Conf:          b.Conf,
		Models:        b.Models,
		Decks:         b.Decks,
		DeckConf:      b.DeckConf,
		Tags:          b.Tags,
	}
}

func marshal(what string, v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", what, err)
	}
	return string(raw), nil
}
