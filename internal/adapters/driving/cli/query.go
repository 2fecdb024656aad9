package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
)

var (
	queryCollection string
	queryTopK       int
	queryJSON       bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search the vault by meaning",
	Long: `Embeds the query text and returns the most semantically similar
chunks from the collection, most relevant first. Relevance is a
0-100 score derived from vector distance.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryCollection, "collection", "c", "", "collection to search (default: documents)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "n", 5, "maximum number of results")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	result, err := queryService.Query(cmd.Context(), args[0], defaultCollection(queryCollection), queryTopK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputQueryTable(cmd, result.Matches)
}

func outputQueryTable(cmd *cobra.Command, matches []domain.QueryMatch) error {
	if len(matches) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range matches {
		m := &matches[i]
		name, _ := m.Metadata[domain.MetaFileName].(string)
		if name == "" {
			name = m.ChunkID
		}

		cmd.Printf("  [%d] %s (%d%%)\n", i+1, name, m.Relevance)
		if section, ok := m.Metadata[domain.MetaSection].(string); ok && section != "" {
			cmd.Printf("      Section: %s\n", section)
		}
		cmd.Printf("      %s\n", snippet(m.Text))
		cmd.Println()
	}
	return nil
}

// snippet shortens chunk text for table display.
func snippet(text string) string {
	const max = 160
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
