package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listCollection string
	listJSON       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Long:  `Lists every document in the collection with its chunk count.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listCollection, "collection", "c", "", "collection to list (default: documents)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	groups, err := queryService.ListDocumentsBySource(cmd.Context(), defaultCollection(listCollection))
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(groups) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	for i := range groups {
		cmd.Printf("  %s (%d chunks)\n", groups[i].FileName, groups[i].ChunkCount)
	}
	return nil
}
