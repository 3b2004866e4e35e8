package pipeline

import (
	"strconv"

	"github.com/verseforge/verseforge/internal/extract"
)

// Profile binds everything source-specific together: the schema sent to the
// model, the keyer that derives document identifiers, the target collection,
// and default field values applied to records the model leaves incomplete.
type Profile struct {
	Name       string
	Collection string
	Religion   string
	Book       string // default book, "" when the model supplies it per record
	Chapter    string // pinned chapter for per-chapter runs, "" otherwise
	Schema     extract.Schema
	Keyer      extract.Keyer
}

// BibleProfile extracts from the tree-structured JSON Bible. The model
// reports book and chapter per record.
func BibleProfile() Profile {
	return Profile{
		Name:       "bible",
		Collection: "bible_verses",
		Religion:   "Christianity",
		Schema:     extract.BibleSchema(),
		Keyer:      extract.Keyer{SourceTag: "bible"},
	}
}

// GitaProfile extracts one chapter of the Bhagavad Gita PDF. The chapter is
// pinned because the print edition numbers verses per chapter.
func GitaProfile(chapter int) Profile {
	return Profile{
		Name:       "gita",
		Collection: "gita_verses",
		Religion:   "hinduism",
		Book:       "Bhagavad Gita",
		Chapter:    strconv.Itoa(chapter),
		Schema:     extract.GitaSchema(),
		Keyer:      extract.Keyer{SourceTag: "gita"},
	}
}

// QuranProfile extracts from the Quran PDF.
func QuranProfile() Profile {
	return Profile{
		Name:       "quran",
		Collection: "quran_verses",
		Religion:   "Islam",
		Book:       "Quran",
		Schema:     extract.QuranSchema(),
		Keyer:      extract.Keyer{SourceTag: "quran"},
	}
}
