package main

import (
	"os"
	"strings"

	"github.com/inkleaf/pageturn"
)

// loaderFor builds a loader for a local path, an absolute URL, or a
// storage path resolved through the configured signer.
func loaderFor(ref string) *pageturn.Loader {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return pageturn.FromURL(fetchClient(), ref)
	}
	if _, err := os.Stat(ref); err == nil {
		return pageturn.Open(ref)
	}
	if cfg.SignerURL != "" {
		return pageturn.FromURL(fetchClient(), ref)
	}
	return pageturn.Open(ref)
}
