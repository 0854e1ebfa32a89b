package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/inkleaf/pageturn/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set pageturn configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("token: %s\n", mask(cfg.Token))
		if cfg.SignerURL != "" {
			fmt.Printf("signer_url: %s\n", cfg.SignerURL)
		}
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Printf("retry_base_delay_ms: %d\n", cfg.RetryBaseDelayMs)
		fmt.Printf("retry_max_delay_ms: %d\n", cfg.RetryMaxDelayMs)
		fmt.Printf("dark_mode: %v\n", cfg.DarkMode)
		fmt.Printf("font_size: %d\n", cfg.FontSize)
		fmt.Printf("listen_addr: %s\n", cfg.ListenAddr)
		if cfg.DownloadDir != "" {
			fmt.Printf("download_dir: %s\n", cfg.DownloadDir)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "token":
			cfg.Token = val
		case "signer_url":
			cfg.SignerURL = val
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			cfg.HTTPTimeoutSec = i
		case "retry_max_attempts":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for retry_max_attempts: %v", val)
			}
			cfg.RetryMaxAttempts = i
		case "retry_base_delay_ms":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for retry_base_delay_ms: %v", val)
			}
			cfg.RetryBaseDelayMs = i
		case "retry_max_delay_ms":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for retry_max_delay_ms: %v", val)
			}
			cfg.RetryMaxDelayMs = i
		case "dark_mode":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for dark_mode: %v", val)
			}
			cfg.DarkMode = b
		case "font_size":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for font_size: %v", val)
			}
			cfg.FontSize = i
		case "listen_addr":
			cfg.ListenAddr = val
		case "download_dir":
			cfg.DownloadDir = val
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func mask(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
