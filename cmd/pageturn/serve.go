package main

import (
	"github.com/spf13/cobra"

	"github.com/inkleaf/pageturn/server"
)

var (
	serveAddr string
	serveDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve documents from a directory over HTTP",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := serveDir
		if len(args) == 1 {
			dir = args[0]
		}
		addr := serveAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}
		return server.New(server.Options{
			Addr:     addr,
			RootDir:  dir,
			DarkMode: cfg.DarkMode,
			FontSize: cfg.FontSize,
		}).Start()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&serveDir, "dir", ".", "directory of documents to serve")
	rootCmd.AddCommand(serveCmd)
}
