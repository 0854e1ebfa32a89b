package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"
)

var fetchOutput string

// fetchCmd is the download fallback: it retrieves the raw document bytes
// without opening them, for formats the viewer cannot display.
var fetchCmd = &cobra.Command{
	Use:   "fetch <document>",
	Short: "Download a document's raw bytes without opening it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := args[0]
		data, err := fetchClient().Fetch(cmd.Context(), ref)
		if err != nil {
			return err
		}

		out := fetchOutput
		if out == "" {
			out = path.Base(ref)
			if cfg.DownloadDir != "" {
				if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
					return err
				}
				out = filepath.Join(cfg.DownloadDir, out)
			}
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %d bytes to %s\n", len(data), out)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "output file (default: basename in download dir)")
	rootCmd.AddCommand(fetchCmd)
}
