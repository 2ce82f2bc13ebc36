package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jdmichaud/rdicom/pkg/index"
)

// NewScanCmd builds the index from a tree of DICOM files.
func NewScanCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "walk a folder of DICOM files and build a searchable index",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			inputPath, _ := cmd.Flags().GetString("input-path")
			sqlOutput, _ := cmd.Flags().GetString("sql-output")
			csvOutput, _ := cmd.Flags().GetBool("csv")
			workers, _ := cmd.Flags().GetInt("workers")

			if inputPath == "" {
				return fmt.Errorf("%w: --input-path is required", ErrConfig)
			}
			if info, err := os.Stat(inputPath); err != nil || !info.IsDir() {
				return fmt.Errorf("%w: %s is not a folder", ErrConfig, inputPath)
			}
			if sqlOutput == "" && !csvOutput {
				return fmt.Errorf("%w: either --sql-output or --csv is required", ErrConfig)
			}

			cfg, err := index.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrConfig, err)
			}

			var store index.IndexStore
			if sqlOutput != "" {
				sqlStore, err := index.OpenSQLStore(sqlOutput, cfg)
				if err != nil {
					return err
				}
				defer sqlStore.Close()
				store = sqlStore
			} else {
				csvStore, err := index.NewCSVStore(os.Stdout, cfg.IndexableFields())
				if err != nil {
					return err
				}
				store = csvStore
			}

			scanner := &index.Scanner{Config: cfg, Store: store, Workers: workers}
			stats, err := scanner.Scan(cmd.Context(), inputPath)
			if err != nil {
				return err
			}
			slog.Info("scan complete",
				"files", stats.Files,
				"indexed", stats.Indexed,
				"skipped", stats.Skipped,
				"failed", stats.Failed)
			return nil
		},
	}
	pf := cmd.Flags()
	pf.StringP("config", "c", "", "YAML config with the fields to index")
	pf.StringP("input-path", "i", "", "root folder to scan")
	pf.String("sql-output", "", "path of the sqlite index to write")
	pf.Bool("csv", false, "write CSV to stdout instead of a sqlite index")
	pf.Int("workers", 0, "decode workers (default: number of CPUs)")
	return cmd
}
