// Package media converts embedded document images into data URIs suitable
// for direct display. OOXML packages may embed TIFF, BMP, or EMF media
// that browsers cannot show; TIFF and BMP are re-encoded to PNG here,
// EMF/WMF are skipped.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"path"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// mimeTypes maps media file extensions to their MIME type. Extensions
// absent from the map are not displayable and are dropped.
var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

// DataURI encodes image bytes as a data URI, keyed by the media entry's
// file name. TIFF and BMP payloads are transcoded to PNG; unsupported
// media (EMF, WMF, video) yields "".
func DataURI(name string, data []byte) string {
	ext := strings.ToLower(path.Ext(name))

	if mime, ok := mimeTypes[ext]; ok {
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
	}

	switch ext {
	case ".tif", ".tiff":
		img, err := tiff.Decode(bytes.NewReader(data))
		if err != nil {
			return ""
		}
		return encodePNG(img)
	case ".bmp":
		img, err := bmp.Decode(bytes.NewReader(data))
		if err != nil {
			return ""
		}
		return encodePNG(img)
	}

	return ""
}

// Displayable reports whether a media entry can become a data URI.
func Displayable(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	if _, ok := mimeTypes[ext]; ok {
		return true
	}
	switch ext {
	case ".tif", ".tiff", ".bmp":
		return true
	}
	return false
}

// DecodeDataURI reverses DataURI, recovering the raw image bytes from a
// base64 data URI. It returns an error for anything that is not one.
func DecodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, errors.New("media: not a data URI")
	}
	i := strings.Index(uri, ";base64,")
	if i < 0 {
		return nil, errors.New("media: data URI is not base64-encoded")
	}
	return base64.StdEncoding.DecodeString(uri[i+len(";base64,"):])
}

func encodePNG(img image.Image) string {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
