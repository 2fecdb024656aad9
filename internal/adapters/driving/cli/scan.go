package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var scanJSON bool

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "List ingestable documents under a directory",
	Long: `Walks the directory and lists every supported document without
extracting or embedding anything. Use it to preview what an
'ingest' of the directory would touch.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "output report as JSON")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	report, err := ingestService.ScanDirectory(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if scanJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(report.Files) == 0 {
		cmd.Printf("No supported documents under %s (%d unsupported skipped).\n", report.Root, report.Skipped)
		return nil
	}

	for _, f := range report.Files {
		cmd.Printf("  %8d  %s\n", f.SizeBytes, f.Path)
	}
	cmd.Println()
	cmd.Printf("%d files, %d bytes total, %d unsupported skipped\n",
		len(report.Files), report.TotalSize, report.Skipped)
	return nil
}
