package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkleaf/pageturn/fetch"
	cfgpkg "github.com/inkleaf/pageturn/internal/config"
)

var (
	// Global flags (wired to config/viper)
	cfgFile string
	// Retry/HTTP flags (override config if set)
	flagToken            string
	flagSignerURL        string
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "pageturn",
	Short: "pageturn: view office and ebook documents from the terminal",
	Long: `pageturn opens EPUB, DOCX, PPTX and XLSX documents, splits them into
display units (chapters, pages, slides, sheets) and lets you read them in
a terminal pager, dump their text, or serve them over HTTP.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.pageturn/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "bearer token for remote fetches (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSignerURL, "signer-url", "", "signed-URL exchange endpoint (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = &cfgpkg.Global{}
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("token") {
		cfg.Token = flagToken
	}
	if f.Changed("signer-url") {
		cfg.SignerURL = flagSignerURL
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
}

// fetchClient builds the authenticated fetch client from the loaded
// configuration.
func fetchClient() *fetch.Client {
	var signer fetch.Signer
	if cfg.SignerURL != "" {
		signer = fetch.NewHTTPSigner(cfg.SignerURL, cfg.Token, cfg.HTTPTimeout())
	}
	return fetch.NewClient(
		cfg.Token,
		signer,
		cfg.HTTPTimeout(),
		cfg.RetryMaxAttempts,
		cfg.RetryBaseDelay(),
		cfg.RetryMaxDelay(),
	)
}
