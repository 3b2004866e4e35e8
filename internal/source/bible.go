package source

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// bibleVerse is a single numbered verse within a chapter.
type bibleVerse struct {
	Number string
	Text   string
}

// bibleChapter is one chunk-sized grouping: a full chapter of one book.
type bibleChapter struct {
	Book    string
	Chapter string
	Verses  []bibleVerse
}

// BibleReader walks a tree-structured JSON source shaped like
// {"Genesis": {"1": {"1": "In the beginning...", ...}, ...}, ...}
// and yields one chunk per chapter, in file order.
type BibleReader struct {
	chapters []bibleChapter
	pos      int
}

// OpenBible reads and decodes the whole JSON tree up front. The file's key
// order is preserved so chunks come out in source order.
func OpenBible(path string) (*BibleReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSourceUnavailable, path, err)
	}
	defer f.Close()

	chapters, err := decodeBible(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrSourceUnavailable, path, err)
	}

	return &BibleReader{chapters: chapters}, nil
}

// decodeBible walks the JSON token stream instead of unmarshalling into maps,
// which would lose the order of books and chapters.
func decodeBible(r io.Reader) ([]bibleChapter, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var chapters []bibleChapter
	for dec.More() {
		book, err := stringToken(dec)
		if err != nil {
			return nil, err
		}

		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("book %q: %w", book, err)
		}
		for dec.More() {
			chapter, err := stringToken(dec)
			if err != nil {
				return nil, fmt.Errorf("book %q: %w", book, err)
			}

			if err := expectDelim(dec, '{'); err != nil {
				return nil, fmt.Errorf("%s %s: %w", book, chapter, err)
			}
			ch := bibleChapter{Book: book, Chapter: chapter}
			for dec.More() {
				num, err := stringToken(dec)
				if err != nil {
					return nil, fmt.Errorf("%s %s: %w", book, chapter, err)
				}
				var raw json.RawMessage
				if err := dec.Decode(&raw); err != nil {
					return nil, fmt.Errorf("%s %s:%s: %w", book, chapter, num, err)
				}
				var text string
				if err := json.Unmarshal(raw, &text); err != nil {
					slog.Warn("skipping non-text verse entry",
						"book", book, "chapter", chapter, "verse", num)
					continue
				}
				ch.Verses = append(ch.Verses, bibleVerse{Number: num, Text: text})
			}
			if err := expectDelim(dec, '}'); err != nil {
				return nil, fmt.Errorf("%s %s: %w", book, chapter, err)
			}
			chapters = append(chapters, ch)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, fmt.Errorf("book %q: %w", book, err)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return chapters, nil
}

// Len reports how many chunks the reader will produce in total.
func (r *BibleReader) Len() int {
	return len(r.chapters)
}

// Next returns the next chapter as a numbered-verse listing. Chapters are
// complete units, so carryOver is ignored.
func (r *BibleReader) Next(carryOver string) (Chunk, error) {
	if r.pos >= len(r.chapters) {
		return Chunk{}, io.EOF
	}
	ch := r.chapters[r.pos]
	r.pos++

	var b strings.Builder
	fmt.Fprintf(&b, "Book: %s, Chapter: %s\n", ch.Book, ch.Chapter)
	for _, v := range ch.Verses {
		fmt.Fprintf(&b, "%s. %s\n", v.Number, v.Text)
	}

	return Chunk{
		Ref:  Ref{Book: ch.Book, Chapter: ch.Chapter},
		Text: b.String(),
	}, nil
}

func (r *BibleReader) Close() error {
	return nil
}

func expectDelim(dec *json.Decoder, want rune) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || rune(d) != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected string key, got %v", tok)
	}
	return s, nil
}
