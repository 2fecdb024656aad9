package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report embedding runtime and OCR availability",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	status := healthService.CheckRuntime(cmd.Context())

	if statusJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if status.Available {
		cmd.Printf("Embedding runtime: available")
		if status.Version != "" {
			cmd.Printf(" (%s)", status.Version)
		}
		cmd.Println()
	} else {
		cmd.Printf("Embedding runtime: unavailable: %s\n", status.Err)
	}
	cmd.Printf("Embedding model:   %s\n", status.EmbeddingModel)
	if status.OCRAvailable {
		cmd.Println("OCR:               available")
	} else {
		cmd.Println("OCR:               not installed")
	}
	return nil
}
