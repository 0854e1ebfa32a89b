//go:build ocr

// Package ocr recovers text from image-only slides and figures via the
// Tesseract OCR engine (gosseract). It requires Tesseract to be
// installed on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"errors"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// ErrOCRNotEnabled is returned by builds without the "ocr" tag. It is
// declared here too so callers can reference it unconditionally.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client. The client must be closed when no longer
// needed to release resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases the underlying Tesseract resources.
func (c *Client) Close() error {
	return c.client.Close()
}

// SetLanguage sets the recognition language (e.g. "eng", "deu").
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// ImageText runs OCR over an encoded image (PNG, JPEG, TIFF) and returns
// the recognized text.
func (c *Client) ImageText(img []byte) (string, error) {
	if err := c.client.SetImageFromBytes(img); err != nil {
		return "", err
	}
	text, err := c.client.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Enabled reports whether OCR support was compiled in.
func Enabled() bool { return true }
