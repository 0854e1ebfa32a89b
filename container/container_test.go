package container

import (
	"archive/zip"
	"bytes"
	"errors"
	"regexp"
	"testing"

	"github.com/inkleaf/pageturn/errs"
)

// buildZip creates an in-memory zip archive from name/content pairs.
func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	data := buildZip(t, map[string]string{
		"hello.txt":  "hello",
		"dir/nested": "nested",
	})

	a, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if !a.Has("hello.txt") {
		t.Error("Has(hello.txt) = false, want true")
	}
	if a.Has("missing.txt") {
		t.Error("Has(missing.txt) = true, want false")
	}
}

func TestOpenNotZip(t *testing.T) {
	_, err := Open([]byte("this is not a zip archive"))
	if err == nil {
		t.Fatal("Open succeeded on non-zip data")
	}
	if !errors.Is(err, ErrNotZip) {
		t.Errorf("error = %v, want ErrNotZip", err)
	}
	if errs.KindOf(err) != errs.KindFormat {
		t.Errorf("KindOf = %v, want KindFormat", errs.KindOf(err))
	}
}

func TestRead(t *testing.T) {
	data := buildZip(t, map[string]string{"a.txt": "alpha"})

	a, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}

	got, err := a.ReadString("a.txt")
	if err != nil {
		t.Fatalf("ReadString failed: %v", err)
	}
	if got != "alpha" {
		t.Errorf("ReadString = %q, want %q", got, "alpha")
	}

	if _, err := a.Read("missing.txt"); !errors.Is(err, ErrMissingEntry) {
		t.Errorf("Read(missing) error = %v, want ErrMissingEntry", err)
	}
}

func TestRequire(t *testing.T) {
	data := buildZip(t, map[string]string{"present.xml": "<x/>"})

	a, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}

	if err := a.Require("present.xml"); err != nil {
		t.Errorf("Require(present.xml) = %v, want nil", err)
	}

	err = a.Require("present.xml", "absent.xml")
	if err == nil {
		t.Fatal("Require succeeded with missing entry")
	}
	if errs.KindOf(err) != errs.KindFormat {
		t.Errorf("KindOf = %v, want KindFormat", errs.KindOf(err))
	}
}

func TestMatchAndPrefix(t *testing.T) {
	data := buildZip(t, map[string]string{
		"ppt/slides/slide1.xml": "<a/>",
		"ppt/slides/slide2.xml": "<b/>",
		"ppt/slides/_rels/slide1.xml.rels": "<r/>",
		"word/document.xml":     "<w/>",
	})

	a, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}

	matches := a.Match(regexp.MustCompile(`^ppt/slides/slide\d+\.xml$`))
	if len(matches) != 2 {
		t.Errorf("Match returned %d entries, want 2", len(matches))
	}

	prefixed := a.WithPrefix("ppt/")
	if len(prefixed) != 3 {
		t.Errorf("WithPrefix returned %d entries, want 3", len(prefixed))
	}
}
