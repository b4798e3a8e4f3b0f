package domain

// Field describes one note field of a model.
type Field struct {
	Name              string  `json:"name"`
	Ord               int     `json:"ord"`
	Sticky            bool    `json:"sticky"`
	RTL               bool    `json:"rtl"`
	Font              string  `json:"font"`
	Size              int     `json:"size"`
	Description       string  `json:"description"`
	PlainText         bool    `json:"plainText"`
	Collapsed         bool    `json:"collapsed"`
	ExcludeFromSearch bool    `json:"excludeFromSearch"`
	ID                int64   `json:"id"`
	Tag               *string `json:"tag"`
	PreventDeletion   bool    `json:"preventDeletion"`
}

// CardTemplate renders a note into the question and answer sides of a card.
type CardTemplate struct {
	Name           string `json:"name"`
	Ord            int    `json:"ord"`
	QuestionFormat string `json:"qfmt"`
	AnswerFormat   string `json:"afmt"`
}

// Model is the note type: field list, template list and styling.
type Model struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Type      int            `json:"type"`
	SortField int            `json:"sortf"`
	Sticky    bool           `json:"sticky"`
	RTL       bool           `json:"rtl"`
	Fields    []Field        `json:"flds"`
	Templates []CardTemplate `json:"tmpls"`
	CSS       string         `json:"css"`
	LatexPre  string         `json:"latexPre"`
	LatexPost string         `json:"latexPost"`
}

// Deck is the named container the exported cards belong to.
// Common and Kind hold JSON documents as text.
type Deck struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	ModTime int64  `json:"mtime_secs"`
	USN     int    `json:"usn"`
	Common  string `json:"common"`
	Kind    string `json:"kind"`
}

// CollectionMeta is the single row of the col table.
type CollectionMeta struct {
	ID            int64
	Created       int64
	ModTime       int64
	SchemaModTime int64
	Version       int
	Dirty         int
	USN           int
	LastSync      int64
	Conf          string
	Models        string
	Decks         string
	DeckConf      string
	Tags          string
}
