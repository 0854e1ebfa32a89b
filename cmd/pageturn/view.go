package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkleaf/pageturn/errs"
	"github.com/inkleaf/pageturn/pager"
)

var viewCmd = &cobra.Command{
	Use:   "view <document>",
	Short: "Read a document in the terminal pager",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := args[0]
		ctrl, err := loaderFor(ref).Session(cmd.Context())
		if err != nil {
			if errs.Fallback(err) {
				return fmt.Errorf("%w\nthis format cannot be displayed; use 'pageturn fetch %s' to download it", err, ref)
			}
			return err
		}

		p, err := pager.New(ctrl, ref)
		if err != nil {
			return err
		}
		return p.Run()
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
