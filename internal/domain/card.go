package domain

// Card is a single question-answer pair supplied by the caller.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FieldSeparator joins a note's fields inside the flds column.
const FieldSeparator = "\x1f"

// Fixed identifiers shared by the row encoder and the JSON registries.
const (
	DefaultDeckID     int64 = 2
	DefaultModelID    int64 = 1
	CollectionVersion       = 11
)

// Note is one row of the notes table.
type Note struct {
	ID        int64
	GUID      string
	ModelID   int64
	ModTime   int64
	USN       int
	Tags      string
	Fields    string
	SortField string
	Checksum  uint32
	Flags     int
	Data      string
}

// CardRow is one row of the cards table. All scheduling
// columns stay zero: every exported card is new.
type CardRow struct {
	ID       int64
	NoteID   int64
	DeckID   int64
	Ordinal  int
	ModTime  int64
	USN      int
	Type     int
	Queue    int
	Due      int
	Interval int
	Factor   int
	Reps     int
	Lapses   int
	Left     int
	ODue     int
	ODid     int
	Flags    int
	Data     string
}
