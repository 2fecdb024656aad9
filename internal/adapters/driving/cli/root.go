// Package cli implements the docvault command-line interface.
// Commands are thin adapters: they parse flags, call the driving
// ports, and render results. All pipeline logic lives in the core
// services.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docvault-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/docvault-cli/internal/adapters/driven/ocr/tesseract"
	"github.com/custodia-labs/docvault-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docvault-cli/internal/chunker"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docvault-cli/internal/core/services"
	"github.com/custodia-labs/docvault-cli/internal/extractors"
	"github.com/custodia-labs/docvault-cli/internal/extractors/image"
	"github.com/custodia-labs/docvault-cli/internal/extractors/office"
	"github.com/custodia-labs/docvault-cli/internal/extractors/pdf"
	"github.com/custodia-labs/docvault-cli/internal/extractors/plaintext"
	"github.com/custodia-labs/docvault-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands. Wired on first use; tests inject
// mocks directly.
var (
	ingestService driving.Ingestor
	queryService  driving.QueryService
	healthService driving.HealthService
	configStore   driven.ConfigStore
	ocrEngine     driven.OCREngine
	vectorStore   driven.VectorStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "docvault",
	Short: "Offline document ingestion and semantic search",
	Long: `DocVault ingests local documents (PDF, Office, Markdown, plain text,
scanned images) into a persistent vector store and answers
natural-language queries against them. Everything runs on this
machine; no document content leaves it.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if vectorStore != nil {
			vectorStore.Close() //nolint:errcheck
		}
	}()
	return rootCmd.Execute()
}

// ensureServices wires the real adapters on first use. Commands that
// only touch config or version never pay the store-open cost.
func ensureServices() error {
	if queryService != nil && ingestService != nil && healthService != nil {
		return nil
	}

	cfg, err := ensureConfig()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.GetString(file.KeyDataDir))
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}
	vectorStore = store

	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL:    cfg.GetString(file.KeyEmbeddingBaseURL),
		Model:      cfg.GetString(file.KeyEmbeddingModel),
		Dimensions: cfg.GetInt(file.KeyEmbeddingDimensions),
	})

	ocrEngine = tesseract.NewEngine(tesseract.Config{
		Binary: cfg.GetString(file.KeyOCRBinary),
	})

	registry := extractors.NewRegistry(
		plaintext.New(),
		office.New(),
		pdf.New(ocrEngine),
		image.New(ocrEngine),
	)

	var chunkOpts []chunker.Option
	if size := cfg.GetInt(file.KeyChunkSize); size > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(size))
	}
	if overlap := cfg.GetInt(file.KeyChunkOverlap); overlap > 0 {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(overlap))
	}

	ingestService = services.NewIngestService(registry, embedder, store,
		services.WithChunker(chunker.New(chunkOpts...)))
	queryService = services.NewQueryService(embedder, store)
	healthService = services.NewHealthService(embedder, store, ocrEngine)
	return nil
}

// ensureConfig loads the config store on first use.
func ensureConfig() (driven.ConfigStore, error) {
	if configStore != nil {
		return configStore, nil
	}
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	configStore = cfg
	return configStore, nil
}

// defaultCollection resolves the collection a command should use when
// the flag is empty: configured default first, then "documents".
func defaultCollection(flag string) string {
	if flag != "" {
		return flag
	}
	if configStore != nil {
		if c := configStore.GetString(file.KeyCollection); c != "" {
			return c
		}
	}
	return ""
}
