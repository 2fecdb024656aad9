package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage docvault configuration",
	Long: `View and set configuration values stored in ~/.docvault/config.toml.

Common keys:
  storage.data_dir        where the vector store lives
  storage.collection      default collection name
  embedding.base_url      Ollama base URL
  embedding.model         embedding model name
  embedding.dimensions    embedding vector size
  chunker.size            target chunk size in characters
  chunker.overlap         overlap between chunks in characters
  ocr.binary              tesseract executable`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := ensureConfig()
	if err != nil {
		return err
	}

	keys := []string{
		file.KeyDataDir,
		file.KeyCollection,
		file.KeyEmbeddingBaseURL,
		file.KeyEmbeddingModel,
		file.KeyEmbeddingDimensions,
		file.KeyChunkSize,
		file.KeyChunkOverlap,
		file.KeyOCRBinary,
	}
	sort.Strings(keys)

	for _, key := range keys {
		if val, ok := cfg.Get(key); ok {
			cmd.Printf("%s = %v\n", key, val)
		} else {
			cmd.Printf("%s = (default)\n", key)
		}
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := ensureConfig()
	if err != nil {
		return err
	}

	val, ok := cfg.Get(args[0])
	if !ok {
		return fmt.Errorf("key %s is not set", args[0])
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := ensureConfig()
	if err != nil {
		return err
	}

	key, raw := args[0], args[1]

	// Store integers as integers so GetInt works after reload.
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := cfg.Set(key, value); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	cmd.Printf("%s = %v\n", key, value)
	return nil
}
