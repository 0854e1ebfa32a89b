package epubdoc

import (
	"encoding/xml"
	"errors"
	"strings"

	"github.com/inkleaf/pageturn/container"
	"github.com/inkleaf/pageturn/errs"
)

// ErrDRMProtected is returned for encrypted books, which cannot be shown.
var ErrDRMProtected = errors.New("epub: DRM-protected content cannot be processed")

// encryptionXML represents META-INF/encryption.xml.
type encryptionXML struct {
	XMLName       xml.Name        `xml:"encryption"`
	EncryptedData []encryptedData `xml:"EncryptedData"`
}

type encryptedData struct {
	EncryptionMethod encryptionMethod `xml:"EncryptionMethod"`
}

type encryptionMethod struct {
	Algorithm string `xml:"Algorithm,attr"`
}

// checkForDRM rejects books whose content is encrypted. Font obfuscation
// (the IDPF/Adobe algorithms) is not DRM and is allowed through.
func checkForDRM(a *container.Archive) error {
	data, err := a.Read("META-INF/encryption.xml")
	if err != nil {
		return nil // no encryption declared
	}

	var enc encryptionXML
	if err := xml.Unmarshal(data, &enc); err != nil {
		return nil
	}

	for _, ed := range enc.EncryptedData {
		alg := ed.EncryptionMethod.Algorithm
		if strings.Contains(alg, "embedding") || strings.Contains(alg, "obfuscation") {
			continue
		}
		return errs.Format("epub.open", ErrDRMProtected)
	}
	return nil
}
