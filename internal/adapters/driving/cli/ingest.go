package cli

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driving"
)

var (
	ingestCollection string
	ingestOCR        bool
	ingestPassword   string
	ingestSmart      bool
	ingestJSON       bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest documents into the vault",
	Long: `Extracts text from the given files, chunks it, embeds the chunks and
stores them for semantic search. Re-ingesting a file replaces its
previous chunks.

Use --smart for structure-aware chunking that keeps sections and
paragraphs together, and --ocr to recover text from scanned pages.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCollection, "collection", "c", "", "target collection (default: documents)")
	ingestCmd.Flags().BoolVar(&ingestOCR, "ocr", false, "enable OCR fallback for scanned content")
	ingestCmd.Flags().StringVar(&ingestPassword, "password", "", "password for encrypted documents")
	ingestCmd.Flags().BoolVar(&ingestSmart, "smart", false, "structure-aware chunking")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	opts := driving.IngestOptions{
		Collection: defaultCollection(ingestCollection),
		UseOCR:     ingestOCR,
		Password:   ingestPassword,
		Smart:      ingestSmart,
	}

	// Render progress while the batch runs.
	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		renderProgress(cmd, ingestService.Progress(), stop)
	}()

	batch, err := ingestService.ProcessBatch(cmd.Context(), args, opts)
	close(stop)
	wg.Wait()
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(batch, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println()
	cmd.Printf("Ingested %d of %d files in %s\n",
		batch.SuccessCount, batch.TotalFiles, batch.Elapsed.Round(1e6))
	for i := range batch.Results {
		r := &batch.Results[i]
		if r.Success {
			cmd.Printf("  ok   %s (%d chunks)\n", r.Path, r.ChunkCount)
		} else {
			cmd.Printf("  FAIL %s: %s\n", r.Path, r.Error)
		}
	}
	if batch.ErrorCount > 0 {
		return fmt.Errorf("%d files failed", batch.ErrorCount)
	}
	return nil
}

// renderProgress prints pipeline events until stop closes and the
// channel drains.
func renderProgress(cmd *cobra.Command, events <-chan domain.ProgressEvent, stop <-chan struct{}) {
	for {
		select {
		case ev := <-events:
			printEvent(cmd, ev)
		case <-stop:
			// Drain whatever is left in the buffer.
			for {
				select {
				case ev := <-events:
					printEvent(cmd, ev)
				default:
					return
				}
			}
		}
	}
}

func printEvent(cmd *cobra.Command, ev domain.ProgressEvent) {
	switch {
	case ev.Step == domain.StepFailed:
		cmd.PrintErrf("[%s] failed: %s\n", ev.Path, ev.Err)
	case ev.Step == domain.StepComplete:
		cmd.Printf("[%s] done (%d chunks)\n", ev.Path, ev.ChunkCount)
	case ev.Step == domain.StepEmbedding && ev.Percent > 0:
		cmd.Printf("[%s] %d/%d embedding %d%%\n", ev.Path, ev.StepIndex, ev.StepTotal, ev.Percent)
	case ev.Step == domain.StepQueued:
		// Too noisy for batches.
	default:
		cmd.Printf("[%s] %d/%d %s\n", ev.Path, ev.StepIndex, ev.StepTotal, ev.Step)
	}
}
