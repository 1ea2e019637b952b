package storage

import (
	"testing"
)

func tempExport(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempExport(t)
	content := []byte("<html>invoice</html>")
	if err := s.Write("invoices/2025-001.html", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("invoices/2025-001.html")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteOverwrites(t *testing.T) {
	s := tempExport(t)
	if err := s.Write("doc.html", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Write("doc.html", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Read("doc.html")
	if string(got) != "v2" {
		t.Errorf("content = %q, want v2", got)
	}
}

func TestPathTraversalRejected(t *testing.T) {
	s := tempExport(t)
	for _, p := range []string{"../escape.html", "a/../../escape.html", "/etc/passwd", "", "."} {
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("Write(%q) accepted an unsafe path", p)
		}
	}
}

func TestReadMissing(t *testing.T) {
	s := tempExport(t)
	if _, err := s.Read("missing.html"); err == nil {
		t.Error("expected error for missing file")
	}
}
