package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkleaf/pageturn/model"
)

var tocCmd = &cobra.Command{
	Use:   "toc <document>",
	Short: "Print a document's table of contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loaderFor(args[0]).Document(cmd.Context())
		if err != nil {
			return err
		}
		printEntries(doc.TOC.Entries, 0)
		return nil
	},
}

func printEntries(entries []model.TOCEntry, depth int) {
	for _, e := range entries {
		indent := strings.Repeat("  ", depth)
		if e.UnitIndex >= 0 {
			fmt.Printf("%s%s (%d)\n", indent, e.Title, e.UnitIndex+1)
		} else {
			fmt.Printf("%s%s\n", indent, e.Title)
		}
		printEntries(e.Children, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(tocCmd)
}
