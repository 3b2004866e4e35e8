package extract

import "strings"

// Keyer derives canonical document identifiers. One canonical scheme is used
// for every source: <sourceTag>_<book>_<chapter>_<verse>, with characters the
// store's document-path syntax disallows stripped or substituted. The source
// tag keeps identifiers collision-free when several sources share a
// collection namespace.
type Keyer struct {
	SourceTag string
}

// DocID builds the identifier for one verse. Deterministic, and injective for
// distinct (book, chapter, verse) triples within one source. Returns "" when
// chapter or verse is missing, which callers treat as a dropped record.
func (k Keyer) DocID(book, chapter, verse string) string {
	chapter = sanitizePart(chapter)
	verse = sanitizePart(VerseNumber(verse))
	if chapter == "" || verse == "" {
		return ""
	}

	parts := []string{k.SourceTag}
	if b := sanitizePart(book); b != "" {
		parts = append(parts, b)
	}
	parts = append(parts, chapter, verse)
	return strings.Join(parts, "_")
}

// FallbackID sanitizes a model-supplied topicId for use as a document
// identifier when book/chapter/verse metadata is missing, keeping the source
// tag prefix so cross-source uniqueness still holds.
func (k Keyer) FallbackID(topicID string) string {
	id := sanitizePart(topicID)
	if id == "" {
		return ""
	}
	return k.SourceTag + "_" + id
}

// VerseNumber extracts the verse number from a display reference like
// "Genesis 1:12" or "2:47". A bare number passes through unchanged.
func VerseNumber(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.LastIndex(ref, ":"); i != -1 {
		return strings.TrimSpace(ref[i+1:])
	}
	return ref
}

// sanitizePart removes characters that collide with the store's document-path
// syntax: spaces and colons are stripped, path separators become underscores.
func sanitizePart(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ":", "")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
