package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/verseforge/verseforge/internal/extract"
	"github.com/verseforge/verseforge/internal/source"
	"github.com/verseforge/verseforge/internal/store"
)

// Config holds the collaborators and knobs for one ingestion run.
type Config struct {
	Reader      source.Reader
	Generator   extract.Generator
	Store       *store.Store
	Profile     Profile
	Interaction Interaction

	// RequestInterval is the minimum delay between successive model calls.
	RequestInterval time.Duration

	// ReviewDir is where the pre-upload review file is written; empty
	// disables the review file.
	ReviewDir string
}

// Summary reports what a run did.
type Summary struct {
	ChunksProcessed  int
	ChunksFailed     int
	RecordsExtracted int
	RecordsDropped   int
	RecordsWritten   int
}

// Driver sequences the pipeline over all chunks: fetch, prompt, extract,
// parse, accumulate; then a confirmation-gated batch write. Strictly
// sequential; the model call is the only suspend point.
type Driver struct {
	cfg Config
}

// New creates a driver for one run.
func New(cfg Config) *Driver {
	if cfg.Interaction == nil {
		cfg.Interaction = AutoApprove{}
	}
	return &Driver{cfg: cfg}
}

// Run processes every chunk and, on confirmation, writes the accumulated
// records as one atomic batch. Per-chunk failures are logged and skipped;
// only context cancellation, reader failure, and the final write abort the
// run.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	var s Summary

	docs, err := d.collect(ctx, &s)
	if err != nil {
		return s, err
	}

	if len(docs) == 0 {
		slog.Info("no records extracted, nothing to write")
		return s, nil
	}

	if d.cfg.ReviewDir != "" {
		path, err := d.writeReviewFile(docs)
		if err != nil {
			slog.Warn("failed to write review file", "error", err)
		} else {
			slog.Info("review file written", "path", path)
		}
	}

	for {
		decision, corr, err := d.cfg.Interaction.Review(docs)
		if err != nil {
			return s, fmt.Errorf("review: %w", err)
		}

		switch decision {
		case DecisionWrite:
			if err := d.cfg.Store.UpsertVerses(ctx, d.cfg.Profile.Collection, docs); err != nil {
				return s, fmt.Errorf("write batch: %w", err)
			}
			s.RecordsWritten = len(docs)
			slog.Info("batch written",
				"collection", d.cfg.Profile.Collection,
				"records", s.RecordsWritten,
			)
			return s, nil

		case DecisionDiscard:
			slog.Info("upload declined, discarding records", "records", len(docs))
			return s, nil

		case DecisionCorrect:
			d.applyCorrection(docs, corr)
		}
	}
}

// collect pulls every chunk through prompt, extract, parse, and key, and
// accumulates keyed documents.
func (d *Driver) collect(ctx context.Context, s *Summary) ([]store.Document, error) {
	var docs []store.Document
	index := make(map[string]int)
	carryOver := ""

	for chunkNum := 1; ; chunkNum++ {
		chunk, err := d.cfg.Reader.Next(carryOver)
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return docs, fmt.Errorf("read chunk: %w", err)
		}

		if chunkNum > 1 && d.cfg.RequestInterval > 0 {
			select {
			case <-ctx.Done():
				return docs, ctx.Err()
			case <-time.After(d.cfg.RequestInterval):
			}
		}

		slog.Info("processing chunk",
			"source", d.cfg.Profile.Name,
			"ref", chunk.Ref.String(),
			"chunk", chunkNum,
		)

		prompt := extract.BuildPrompt(chunk.Text, d.cfg.Profile.Schema)
		raw, err := d.cfg.Generator.Generate(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return docs, ctx.Err()
			}
			slog.Error("extraction failed, skipping chunk",
				"ref", chunk.Ref.String(),
				"error", err,
			)
			s.ChunksFailed++
			carryOver = ""
			continue
		}

		var records []extract.VerseRecord
		var dropped int
		if d.cfg.Profile.Schema.Format == extract.FormatJSON {
			records, carryOver = extract.ParseJSON(raw)
		} else {
			records, dropped = extract.ParseDelimited(raw)
			carryOver = ""
		}
		s.RecordsDropped += dropped

		for _, rec := range records {
			doc, ok := d.keyRecord(chunk, rec)
			if !ok {
				slog.Warn("dropping record without derivable id",
					"ref", chunk.Ref.String(),
					"topicName", rec.TopicName,
				)
				s.RecordsDropped++
				continue
			}
			s.RecordsExtracted++

			// Overwrite-on-key within the run, first position kept.
			if i, exists := index[doc.ID]; exists {
				docs[i] = doc
				continue
			}
			index[doc.ID] = len(docs)
			docs = append(docs, doc)
		}

		s.ChunksProcessed++
		slog.Info("chunk done",
			"ref", chunk.Ref.String(),
			"records", len(records),
			"accumulated", len(docs),
		)
	}
}

// keyRecord fills profile defaults into an extracted record and derives its
// canonical document identifier.
func (d *Driver) keyRecord(chunk source.Chunk, rec extract.VerseRecord) (store.Document, bool) {
	p := d.cfg.Profile

	if rec.Religion == "" {
		rec.Religion = p.Religion
	}
	if rec.Book == "" {
		rec.Book = p.Book
	}
	if rec.Book == "" {
		rec.Book = chunk.Ref.Book
	}
	if rec.Chapter == "" {
		rec.Chapter = p.Chapter
	}
	if rec.Chapter == "" {
		rec.Chapter = chunk.Ref.Chapter
	}

	verse := rec.VerseRef
	id := p.Keyer.DocID(rec.Book, rec.Chapter, verse)
	if id == "" {
		id = p.Keyer.FallbackID(rec.TopicID)
	}
	if id == "" {
		return store.Document{}, false
	}

	rec.TopicID = id
	return store.Document{ID: id, Record: rec}, true
}

// applyCorrection re-keys the record the operator named. Unknown identifiers
// are reported and otherwise ignored.
func (d *Driver) applyCorrection(docs []store.Document, corr Correction) {
	for i := range docs {
		if docs[i].Record.TopicID != corr.TopicID && docs[i].ID != corr.TopicID {
			continue
		}

		rec := docs[i].Record
		rec.Chapter = strconv.Itoa(corr.Chapter)
		rec.VerseRef = strconv.Itoa(corr.Verse)
		newID := d.cfg.Profile.Keyer.DocID(rec.Book, rec.Chapter, rec.VerseRef)
		if newID == "" {
			slog.Warn("correction produced no valid id, keeping record as is",
				"topicId", corr.TopicID,
			)
			return
		}
		rec.TopicID = newID
		docs[i] = store.Document{ID: newID, Record: rec}

		slog.Info("record re-keyed",
			"old", corr.TopicID,
			"new", newID,
		)
		return
	}

	slog.Warn("correction target not found", "topicId", corr.TopicID)
}

// writeReviewFile lists the accumulated identifiers for manual review before
// the upload decision.
func (d *Driver) writeReviewFile(docs []store.Document) (string, error) {
	name := fmt.Sprintf("%s_review.txt", d.cfg.Profile.Name)
	if d.cfg.Profile.Chapter != "" {
		name = fmt.Sprintf("%s_chapter_%s_review.txt", d.cfg.Profile.Name, d.cfg.Profile.Chapter)
	}
	path := filepath.Join(d.cfg.ReviewDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fmt.Fprintf(f, "--- Review for %s ---\n\n", d.cfg.Profile.Schema.SourceName)
	for _, doc := range docs {
		fmt.Fprintf(f, "ID: %s, Name: %s\n", doc.ID, doc.Record.TopicName)
	}
	return path, nil
}
