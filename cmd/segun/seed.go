package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AbokiLearn/segun/application/service"
	"github.com/AbokiLearn/segun/infrastructure/chunking"
	"github.com/AbokiLearn/segun/infrastructure/persistence"
	"github.com/AbokiLearn/segun/internal/log"
)

func seedCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "seed <lectures-dir>",
		Short: "Load lecture files into the course database",
		Long: `Load lecture markdown files into the course database.

Files must be named NN-[subject-slug]-lecture-title.md, for example
07-[async]-promise-chaining.md. Each file becomes one lecture under the
slugged subject; its content is chunked, embedded, and written to the
vector collection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(envFile, args[0])
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runSeed(envFile, dir string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	logger := log.Configure(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := persistence.Connect(ctx, cfg.MongoURI(), cfg.MongoDatabase(), cfg.MongoTimeout())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			logger.Error("close database", "error", err)
		}
	}()

	if err := db.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	chunker, err := chunking.NewChunker(chunking.DefaultParams())
	if err != nil {
		return err
	}

	ingestor := service.NewIngestor(
		persistence.NewSubjectStore(db),
		persistence.NewLectureStore(db),
		persistence.NewChunkStore(db),
		embedder,
		chunker,
		logger,
	)

	if err := ingestor.EnsureSubjects(ctx); err != nil {
		return fmt.Errorf("ensure subjects: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return fmt.Errorf("list lecture files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no lecture files found in %s", dir)
	}
	sort.Strings(files)

	total := 0
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		report, err := ingestor.IngestLecture(ctx, file, string(content))
		if err != nil {
			return fmt.Errorf("ingest %s: %w", file, err)
		}
		total += report.Chunks
	}

	logger.Info("seeding complete", "lectures", len(files), "chunks", total)
	return nil
}
