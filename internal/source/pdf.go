package source

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// pageSource is the page-addressable text behind a PDFReader. The ledongthuc
// reader satisfies it in production; tests substitute a fixed page list.
type pageSource interface {
	NumPages() int
	PageText(n int) (string, error)
}

// PDFConfig configures a page-window reader.
type PDFConfig struct {
	Path      string
	StartPage int // 1-based inclusive; 0 means the first page
	EndPage   int // inclusive; 0 means the last page
	BatchSize int // pages per chunk
	TailLimit int // carry-over fallback length in characters
}

// PDFReader yields fixed-size page windows over a PDF, prefixing each window
// with the previous one's carry-over so a verse split across a window
// boundary is not lost.
type PDFReader struct {
	src       pageSource
	closer    io.Closer
	cur       int
	end       int
	batchSize int
	tailLimit int
	tail      string
}

// OpenPDF opens the file and holds it open until Close; pages are extracted
// lazily as chunks are pulled.
func OpenPDF(cfg PDFConfig) (*PDFReader, error) {
	f, reader, err := pdf.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSourceUnavailable, cfg.Path, err)
	}
	r, err := newPDFReader(&ledongthucSource{reader: reader}, cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

func newPDFReader(src pageSource, cfg PDFConfig) (*PDFReader, error) {
	start := cfg.StartPage
	if start < 1 {
		start = 1
	}
	end := cfg.EndPage
	if end < 1 || end > src.NumPages() {
		end = src.NumPages()
	}
	if start > end {
		return nil, fmt.Errorf("%w: page range %d-%d out of bounds", ErrSourceUnavailable, cfg.StartPage, cfg.EndPage)
	}
	batch := cfg.BatchSize
	if batch < 1 {
		batch = 1
	}

	return &PDFReader{
		src:       src,
		cur:       start,
		end:       end,
		batchSize: batch,
		tailLimit: cfg.TailLimit,
	}, nil
}

// Len reports how many chunks the reader will produce in total.
func (r *PDFReader) Len() int {
	return (r.end - r.cur + r.batchSize) / r.batchSize
}

// Next returns the next page window. A model-reported carryOver takes
// precedence over the reader's own trailing-text buffer; a page that fails to
// extract is skipped with a warning, not fatal.
func (r *PDFReader) Next(carryOver string) (Chunk, error) {
	if r.cur > r.end {
		return Chunk{}, io.EOF
	}

	start := r.cur
	end := start + r.batchSize - 1
	if end > r.end {
		end = r.end
	}
	r.cur = end + 1

	var b strings.Builder
	for i := start; i <= end; i++ {
		text, err := r.src.PageText(i)
		if err != nil {
			slog.Warn("skipping unreadable page", "page", i, "error", err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	pageText := b.String()

	prefix := carryOver
	if prefix == "" {
		prefix = r.tail
	}
	r.tail = tailOf(pageText, r.tailLimit)

	text := pageText
	if prefix != "" {
		text = prefix + " " + pageText
	}

	return Chunk{
		Ref:       Ref{StartPage: start, EndPage: end},
		Text:      text,
		CarryOver: prefix,
	}, nil
}

func (r *PDFReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// tailOf returns the last limit characters of text without splitting a rune.
func tailOf(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		if limit <= 0 {
			return ""
		}
		return text
	}
	runes := []rune(text)
	return string(runes[len(runes)-limit:])
}

// ledongthucSource adapts the ledongthuc/pdf reader to pageSource.
type ledongthucSource struct {
	reader *pdf.Reader
}

func (s *ledongthucSource) NumPages() int {
	return s.reader.NumPage()
}

func (s *ledongthucSource) PageText(n int) (string, error) {
	page := s.reader.Page(n)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is null", n)
	}
	return page.GetPlainText(nil)
}
