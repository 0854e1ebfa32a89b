package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <document>",
	Short: "Print document format, metadata, and unit count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loaderFor(args[0]).Document(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Name:     %s\n", doc.Name)
		fmt.Printf("Format:   %s\n", doc.Format)
		fmt.Printf("Units:    %d\n", len(doc.Units))
		m := doc.Metadata
		if m.Title != "" {
			fmt.Printf("Title:    %s\n", m.Title)
		}
		if m.Author != "" {
			fmt.Printf("Author:   %s\n", m.Author)
		}
		if m.Subject != "" {
			fmt.Printf("Subject:  %s\n", m.Subject)
		}
		if m.Language != "" {
			fmt.Printf("Language: %s\n", m.Language)
		}
		if len(m.Keywords) > 0 {
			fmt.Printf("Keywords: %s\n", strings.Join(m.Keywords, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
