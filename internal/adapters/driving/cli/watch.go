package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docvault-cli/internal/logger"
)

var (
	watchCollection string
	watchOCR        bool
	watchSmart      bool

	// watchSettle is how long a file must stay quiet before it is
	// ingested. Editors fire several events per save.
	watchSettle = 2 * time.Second
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest changed documents",
	Long: `Watches the directory tree and re-ingests any supported document
that is created or modified. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchCollection, "collection", "c", "", "target collection (default: documents)")
	watchCmd.Flags().BoolVar(&watchOCR, "ocr", false, "enable OCR fallback for scanned content")
	watchCmd.Flags().BoolVar(&watchSmart, "smart", false, "structure-aware chunking")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	root := args[0]

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the whole tree; fsnotify is not recursive by itself.
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}

	opts := driving.IngestOptions{
		Collection: defaultCollection(watchCollection),
		UseOCR:     watchOCR,
		Smart:      watchSmart,
	}

	cmd.Printf("Watching %s (ctrl-c to stop)\n", root)

	// Debounce per path: ingest only after the file settles.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			// New directories join the watch.
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				watcher.Add(event.Name) //nolint:errcheck
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-ticker.C:
			now := time.Now()
			for path, seen := range pending {
				if now.Sub(seen) < watchSettle {
					continue
				}
				delete(pending, path)
				result, err := ingestService.ProcessDocument(cmd.Context(), path, opts)
				if err != nil {
					return err
				}
				if result.Success {
					cmd.Printf("ingested %s (%d chunks)\n", path, result.ChunkCount)
				} else {
					cmd.PrintErrf("failed %s: %s\n", path, result.Error)
				}
			}
		}
	}
}
