package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	healthCollection string
	healthRecover    bool
	healthJSON       bool
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check vector store health",
	Long: `Probes the vector store for the collection. With --recover, a
corrupted collection is rebuilt empty so ingestion can start over;
documents must then be re-ingested.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().StringVarP(&healthCollection, "collection", "c", "", "collection to probe (default: documents)")
	healthCmd.Flags().BoolVar(&healthRecover, "recover", false, "rebuild the collection if corrupted")
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	report := healthService.CheckHealth(cmd.Context(), defaultCollection(healthCollection), healthRecover)

	if healthJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
	} else {
		if report.Healthy {
			cmd.Printf("Store is healthy (%d chunks).\n", report.ChunkCount)
		} else {
			cmd.Printf("Store is unhealthy: %s\n", report.Err)
		}
		if report.Recovered {
			cmd.Println("Collection was rebuilt empty; re-ingest your documents.")
		}
	}

	if !report.Healthy {
		return errors.New("store is unhealthy")
	}
	return nil
}
