package tags

import (
	"path/filepath"
	"testing"
)

func TestDeriveTitleCleansFileName(t *testing.T) {
	title := DeriveTitle("/books/the_fellowship-of.the Ring (unabridged).m4b")
	if title != "The Fellowship Of The Ring Unabridged" {
		t.Fatalf("unexpected title: %q", title)
	}
}

func TestDeriveTitleFallsBack(t *testing.T) {
	if got := DeriveTitle(""); got != "Unknown Book" {
		t.Fatalf("expected fallback for empty path, got %q", got)
	}
	if got := DeriveTitle("/books/____.mp3"); got != "Unknown Book" {
		t.Fatalf("expected fallback for separator-only name, got %q", got)
	}
}

func TestDisplayTitlePrefersTag(t *testing.T) {
	info := Info{Title: "  The Hobbit  "}
	if got := info.DisplayTitle("/books/hobbit_x.m4b"); got != "The Hobbit" {
		t.Fatalf("expected tagged title, got %q", got)
	}
	if got := (Info{}).DisplayTitle("/books/hobbit_x.m4b"); got != "Hobbit X" {
		t.Fatalf("expected derived title, got %q", got)
	}
}

func TestReadInfoMissingFile(t *testing.T) {
	if _, err := ReadInfo(filepath.Join(t.TempDir(), "absent.m4b")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMP3DurationMissingFile(t *testing.T) {
	if _, err := MP3Duration(filepath.Join(t.TempDir(), "absent.mp3")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
