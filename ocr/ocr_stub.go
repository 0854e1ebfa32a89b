//go:build !ocr

// Package ocr recovers text from image-only slides and figures via the
// Tesseract OCR engine.
//
// This is the stub implementation used when the "ocr" build tag is not
// set. All functions return ErrOCRNotEnabled. To enable OCR, rebuild
// with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed.
package ocr

import "errors"

// ErrOCRNotEnabled is returned when OCR functions are called but OCR
// support was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is the stub OCR client.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op on the stub client.
func (c *Client) Close() error { return nil }

// SetLanguage returns ErrOCRNotEnabled.
func (c *Client) SetLanguage(lang string) error { return ErrOCRNotEnabled }

// ImageText returns ErrOCRNotEnabled.
func (c *Client) ImageText(img []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// Enabled reports whether OCR support was compiled in.
func Enabled() bool { return false }
