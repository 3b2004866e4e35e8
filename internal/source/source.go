package source

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable indicates the underlying source file could not be
// opened or decoded. It is fatal to the whole run, unlike per-page failures.
var ErrSourceUnavailable = errors.New("source unavailable")

// Ref is the positional metadata for a chunk: either a book/chapter pair for
// tree-structured sources or a page range for page-sequential sources.
type Ref struct {
	Book      string
	Chapter   string
	StartPage int
	EndPage   int
}

func (r Ref) String() string {
	if r.Book != "" || r.Chapter != "" {
		return fmt.Sprintf("%s %s", r.Book, r.Chapter)
	}
	if r.StartPage == r.EndPage {
		return fmt.Sprintf("page %d", r.StartPage)
	}
	return fmt.Sprintf("pages %d-%d", r.StartPage, r.EndPage)
}

// Chunk is a unit of source text submitted to the model in one call.
type Chunk struct {
	Ref       Ref
	Text      string // rendered content with carry-over already prepended
	CarryOver string // text recovered from the previous chunk, if any
}

// Reader yields chunks covering a source exactly once, in source order.
//
// carryOver is an incomplete fragment the model reported at the end of the
// previous chunk. Page readers prepend it to the next window (falling back to
// their own trailing-text buffer when it is empty); chapter readers ignore it
// because each chapter is a complete unit.
type Reader interface {
	// Next returns the next chunk, or io.EOF when the source is exhausted.
	Next(carryOver string) (Chunk, error)
	Close() error
}
