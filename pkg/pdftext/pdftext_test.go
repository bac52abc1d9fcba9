package pdftext

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractFileMissing(t *testing.T) {
	if _, err := ExtractFile(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestExtractFileNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("texto simples, não é PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ExtractFile(path); err == nil {
		t.Fatal("non-PDF content accepted")
	}
}
