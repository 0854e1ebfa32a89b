package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkleaf/pageturn/media"
	"github.com/inkleaf/pageturn/model"
	"github.com/inkleaf/pageturn/ocr"
)

var (
	textOCR     bool
	textOCRLang string
	textUnit    int
)

var textCmd = &cobra.Command{
	Use:   "text <document>",
	Short: "Dump a document's plain text to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		units, err := loaderFor(args[0]).Units(cmd.Context())
		if err != nil {
			return err
		}
		if textUnit >= 0 {
			if textUnit >= len(units) {
				return fmt.Errorf("unit %d out of range (document has %d)", textUnit, len(units))
			}
			units = units[textUnit : textUnit+1]
		}

		var oc *ocr.Client
		if textOCR {
			if !ocr.Enabled() {
				return ocr.ErrOCRNotEnabled
			}
			oc, err = ocr.New()
			if err != nil {
				return err
			}
			defer oc.Close()
			if textOCRLang != "" {
				if err := oc.SetLanguage(textOCRLang); err != nil {
					return err
				}
			}
		}

		for i, u := range units {
			if i > 0 {
				fmt.Println("\f")
			}
			text := u.Text
			if strings.TrimSpace(text) == "" && oc != nil && u.Image != "" {
				if recovered := ocrUnit(oc, &u); recovered != "" {
					text = recovered
				}
			}
			fmt.Println(text)
		}
		return nil
	},
}

// ocrUnit recovers text from an image-only unit. Failures degrade to the
// empty string; OCR is best effort.
func ocrUnit(oc *ocr.Client, u *model.Unit) string {
	img, err := media.DecodeDataURI(u.Image)
	if err != nil {
		return ""
	}
	text, err := oc.ImageText(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: OCR failed for %s: %v\n", u.DisplayTitle(), err)
		return ""
	}
	return text
}

func init() {
	textCmd.Flags().BoolVar(&textOCR, "ocr", false, "recover text from image-only units via Tesseract (requires -tags ocr build)")
	textCmd.Flags().StringVar(&textOCRLang, "ocr-lang", "", "OCR recognition language (e.g. eng, deu)")
	textCmd.Flags().IntVar(&textUnit, "unit", -1, "dump only the given unit (0-based)")
	rootCmd.AddCommand(textCmd)
}
