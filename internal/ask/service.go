package ask

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/verseforge/verseforge/internal/extract"
	"github.com/verseforge/verseforge/internal/store"
)

// Scripture names one stored source the service can answer questions about.
type Scripture struct {
	Name       string // route segment, e.g. "gita"
	Title      string // display name used in prompts
	Collection string
	IDFormat   string // canonical identifier shape shown to the model
	ExampleIDs string // JSON array literal of example identifiers
}

// Gita answers from the Bhagavad Gita collection.
func Gita() Scripture {
	return Scripture{
		Name:       "gita",
		Title:      "Bhagavad Gita",
		Collection: "gita_verses",
		IDFormat:   "gita_BhagavadGita_<chapter>_<verse>",
		ExampleIDs: `["gita_BhagavadGita_2_11", "gita_BhagavadGita_4_7"]`,
	}
}

// Quran answers from the Quran collection.
func Quran() Scripture {
	return Scripture{
		Name:       "quran",
		Title:      "Holy Quran",
		Collection: "quran_verses",
		IDFormat:   "quran_Quran_<chapter>_<verse>",
		ExampleIDs: `["quran_Quran_2_255", "quran_Quran_102_8"]`,
	}
}

// Bible answers from the Bible collection.
func Bible() Scripture {
	return Scripture{
		Name:       "bible",
		Title:      "Bible",
		Collection: "bible_verses",
		IDFormat:   "bible_<BookName>_<chapter>_<verse>",
		ExampleIDs: `["bible_Genesis_1_1", "bible_John_3_16"]`,
	}
}

// Answer is the response for a single-scripture question.
type Answer struct {
	Scripture string `json:"scripture"`
	Question  string `json:"question"`
	Summary   string `json:"summary"`
}

// Service answers questions grounded in the stored verses: a model call to
// select relevant identifiers, a store fetch, and a model call to explain.
type Service struct {
	gen   extract.Generator
	store *store.Store
}

// NewService creates a question-answering service.
func NewService(gen extract.Generator, st *store.Store) *Service {
	return &Service{gen: gen, store: st}
}

// Answer responds to a question about one scripture.
func (s *Service) Answer(ctx context.Context, scripture Scripture, question string) (Answer, error) {
	verses, err := s.relevantVerses(ctx, scripture, question)
	if err != nil {
		return Answer{}, err
	}

	prompt := fmt.Sprintf(answerPrompt, scripture.Title, question, formatVerses(verses))
	summary, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return Answer{}, fmt.Errorf("answer question: %w", err)
	}

	return Answer{
		Scripture: scripture.Title,
		Question:  question,
		Summary:   strings.TrimSpace(summary),
	}, nil
}

// Comparative responds with the multi-religion JSON comparison, grounding the
// Gita and Quran sections in stored verses.
func (s *Service) Comparative(ctx context.Context, question string) (json.RawMessage, error) {
	gitaVerses, err := s.relevantVerses(ctx, Gita(), question)
	if err != nil {
		return nil, err
	}
	quranVerses, err := s.relevantVerses(ctx, Quran(), question)
	if err != nil {
		return nil, err
	}
	bibleVerses, err := s.relevantVerses(ctx, Bible(), question)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(comparativePrompt, question,
		verseData(gitaVerses, "Bhagavad Gita"),
		verseData(quranVerses, "Quran"),
		verseData(bibleVerses, "Bible"),
	)

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("comparative answer: %w", err)
	}

	cleaned := extract.StripFences(raw)
	if !json.Valid([]byte(cleaned)) {
		slog.Warn("comparative response is not valid JSON", "response", cleaned)
		return nil, fmt.Errorf("model returned malformed comparison")
	}
	return json.RawMessage(cleaned), nil
}

// relevantVerses asks the model for identifiers and fetches the matching
// documents. A malformed identifier response or a missing document degrades
// to fewer verses, never an error.
func (s *Service) relevantVerses(ctx context.Context, scripture Scripture, question string) ([]extract.VerseRecord, error) {
	prompt := fmt.Sprintf(lookupPrompt, scripture.Title, scripture.IDFormat, question, scripture.ExampleIDs)
	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("look up verses: %w", err)
	}

	var parsed struct {
		Verses []string `json:"verses"`
	}
	if err := json.Unmarshal([]byte(extract.StripFences(raw)), &parsed); err != nil {
		slog.Warn("discarding malformed verse id response",
			"scripture", scripture.Name,
			"error", err,
		)
		return nil, nil
	}

	var verses []extract.VerseRecord
	for _, id := range parsed.Verses {
		record, err := s.store.GetVerse(ctx, scripture.Collection, id)
		if errors.Is(err, sql.ErrNoRows) {
			slog.Warn("verse id not found in store",
				"scripture", scripture.Name,
				"id", id,
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetch verse %s: %w", id, err)
		}
		verses = append(verses, record)
	}
	return verses, nil
}

// formatVerses renders fetched verses for the answer prompt.
func formatVerses(verses []extract.VerseRecord) string {
	if len(verses) == 0 {
		return "No verses found in the database. Please use your own knowledge."
	}
	var b strings.Builder
	for _, v := range verses {
		fmt.Fprintf(&b, "%s %s:%s\n%s\n\n", v.Book, v.Chapter, extract.VerseNumber(v.VerseRef), v.Meaning)
	}
	return strings.TrimRight(b.String(), "\n")
}

// verseData renders fetched verses as JSON for the comparative prompt.
func verseData(verses []extract.VerseRecord, title string) string {
	if len(verses) == 0 {
		return fmt.Sprintf("No specific verses found. Please use your general knowledge of the %s.", title)
	}
	data, err := json.MarshalIndent(verses, "", "  ")
	if err != nil {
		return fmt.Sprintf("No specific verses found. Please use your general knowledge of the %s.", title)
	}
	return string(data)
}
