package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quita-app/quita/internal/app/debts"
	"github.com/quita-app/quita/internal/daemon"
	"github.com/quita-app/quita/internal/export"
	"github.com/quita-app/quita/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "csv", "Export format: csv or json")
	exportCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the debt ledger",
	Long:  `Write the debt ledger to stdout or a file, as CSV or JSON.`,
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.Load(configPath)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ledger, err := debts.NewLedger(db)
	if err != nil {
		return fmt.Errorf("load debts: %w", err)
	}
	list := ledger.Sorted(debts.SortByDueDate, false)

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format, _ := cmd.Flags().GetString("format"); format {
	case "csv":
		return export.DebtsCSV(out, list)
	case "json":
		return export.DebtsJSON(out, list)
	default:
		return fmt.Errorf("unknown export format %q (want csv or json)", format)
	}
}
