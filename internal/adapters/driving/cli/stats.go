package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	statsCollection string
	statsJSON       bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsCollection, "collection", "c", "", "collection to inspect (default: documents)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	stats, err := queryService.CollectionStats(cmd.Context(), defaultCollection(statsCollection))
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Collection: %s\n", stats.Collection)
	cmd.Printf("Chunks:     %d\n", stats.ChunkCount)
	if len(stats.AllCollections) > 0 {
		cmd.Printf("All:        %s\n", strings.Join(stats.AllCollections, ", "))
	}
	return nil
}
