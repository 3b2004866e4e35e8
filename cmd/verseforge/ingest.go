package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/verseforge/verseforge/internal/config"
	"github.com/verseforge/verseforge/internal/extract"
	"github.com/verseforge/verseforge/internal/pipeline"
	"github.com/verseforge/verseforge/internal/source"
	"github.com/verseforge/verseforge/internal/store"
)

var (
	ingestSource    string
	ingestPath      string
	ingestChapter   int
	ingestPages     string
	ingestBatchSize int
	ingestInterval  time.Duration
	ingestYes       bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Extract verses from a scripture source into the database",
	Long: `Read a scripture source, extract structured verse records with Gemini,
and upsert them into the database after interactive review.

Sources:
  bible  tree-structured JSON, one chunk per chapter
  gita   PDF, one chunk per page window; requires --chapter
  quran  PDF, one chunk per page window`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSource, "source", "", "scripture source: bible, gita, or quran")
	ingestCmd.Flags().StringVar(&ingestPath, "path", "", "path to the source file")
	ingestCmd.Flags().IntVar(&ingestChapter, "chapter", 0, "chapter number (gita only)")
	ingestCmd.Flags().StringVar(&ingestPages, "pages", "", "page range START-END (PDF sources)")
	ingestCmd.Flags().IntVar(&ingestBatchSize, "batch-size", 0, "pages per chunk (PDF sources, overrides PAGE_BATCH_SIZE)")
	ingestCmd.Flags().DurationVar(&ingestInterval, "interval", 0, "delay between model calls (overrides REQUEST_INTERVAL)")
	ingestCmd.Flags().BoolVar(&ingestYes, "yes", false, "skip interactive review and upload directly")
	_ = ingestCmd.MarkFlagRequired("source")
	_ = ingestCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForIngest(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if ingestInterval > 0 {
		cfg.RequestInterval = ingestInterval
	}
	if ingestBatchSize > 0 {
		cfg.PageBatchSize = ingestBatchSize
	}

	profile, reader, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer reader.Close()

	st, err := store.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	gen, err := extract.NewGeminiClient(ctx, extract.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		return fmt.Errorf("create Gemini client: %w", err)
	}
	defer gen.Close()

	var interaction pipeline.Interaction
	if ingestYes {
		interaction = pipeline.AutoApprove{}
	} else {
		interaction = pipeline.NewTerminal(os.Stdin, os.Stdout)
	}

	slog.Info("starting ingestion",
		"source", profile.Name,
		"path", ingestPath,
		"collection", profile.Collection,
		"interval", cfg.RequestInterval,
	)

	driver := pipeline.New(pipeline.Config{
		Reader:          reader,
		Generator:       gen,
		Store:           st,
		Profile:         profile,
		Interaction:     interaction,
		RequestInterval: cfg.RequestInterval,
		ReviewDir:       cfg.ReviewDir,
	})

	summary, err := driver.Run(ctx)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	fmt.Println("=== Ingestion Summary ===")
	fmt.Printf("Chunks processed: %d\n", summary.ChunksProcessed)
	fmt.Printf("Chunks failed: %d\n", summary.ChunksFailed)
	fmt.Printf("Records extracted: %d\n", summary.RecordsExtracted)
	fmt.Printf("Records dropped: %d\n", summary.RecordsDropped)
	fmt.Printf("Records written: %d\n", summary.RecordsWritten)

	return nil
}

// openSource builds the profile and reader for the requested source.
func openSource(cfg *config.Config) (pipeline.Profile, source.Reader, error) {
	switch ingestSource {
	case "bible":
		reader, err := source.OpenBible(ingestPath)
		if err != nil {
			return pipeline.Profile{}, nil, fmt.Errorf("open bible source: %w", err)
		}
		return pipeline.BibleProfile(), reader, nil

	case "gita":
		if ingestChapter <= 0 {
			return pipeline.Profile{}, nil, fmt.Errorf("--chapter is required for the gita source")
		}
		reader, err := openPDFSource(cfg)
		if err != nil {
			return pipeline.Profile{}, nil, err
		}
		return pipeline.GitaProfile(ingestChapter), reader, nil

	case "quran":
		reader, err := openPDFSource(cfg)
		if err != nil {
			return pipeline.Profile{}, nil, err
		}
		return pipeline.QuranProfile(), reader, nil

	default:
		return pipeline.Profile{}, nil, fmt.Errorf("unknown source %q: want bible, gita, or quran", ingestSource)
	}
}

func openPDFSource(cfg *config.Config) (source.Reader, error) {
	start, end, err := parsePageRange(ingestPages)
	if err != nil {
		return nil, err
	}
	reader, err := source.OpenPDF(source.PDFConfig{
		Path:      ingestPath,
		StartPage: start,
		EndPage:   end,
		BatchSize: cfg.PageBatchSize,
		TailLimit: cfg.CarryOverLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("open pdf source: %w", err)
	}
	return reader, nil
}

// parsePageRange parses "START-END"; an empty value means the whole file.
func parsePageRange(s string) (start, end int, err error) {
	if s == "" {
		return 0, 0, nil
	}
	first, second, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid page range %q: want START-END", s)
	}
	start, err = strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start page %q", first)
	}
	end, err = strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end page %q", second)
	}
	if start < 1 || end < start {
		return 0, 0, fmt.Errorf("invalid page range %q: want 1 <= START <= END", s)
	}
	return start, end, nil
}
