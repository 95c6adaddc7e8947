package tagging

import (
	"path/filepath"
	"testing"

	"github.com/simonhull/audiometa"

	"chapterize/internal/logging"
	"chapterize/internal/media/tags"
)

func TestWritable(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/out/book_01_Intro.mp3", true},
		{"/out/book_01_Intro.M4B", true},
		{"/out/book_01_Intro.m4a", true},
		{"/out/book_01_Intro.flac", true},
		{"/out/book_01_Intro.wav", false},
		{"/out/book_01_Intro.ogg", false},
		{"/out/book_01_Intro", false},
	}
	for _, tc := range cases {
		if got := Writable(tc.path); got != tc.want {
			t.Errorf("Writable(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestApplyChapterTags(t *testing.T) {
	var tg audiometa.Tags
	book := tags.Info{
		Title:    "Dune",
		Artist:   "Frank Herbert",
		Narrator: "Scott Brick",
		Year:     2007,
	}
	applyChapterTags(&tg, book, "Chapter 3", 3, 24)

	if tg.Title != "Chapter 3" {
		t.Fatalf("track title = %q, want chapter title", tg.Title)
	}
	if tg.TrackNumber != 3 || tg.TrackTotal != 24 {
		t.Fatalf("track position = %d/%d, want 3/24", tg.TrackNumber, tg.TrackTotal)
	}
	if tg.Album != "Dune" || tg.Artist != "Frank Herbert" {
		t.Fatalf("album context not applied: %q by %q", tg.Album, tg.Artist)
	}
	if tg.Narrator != "Scott Brick" || tg.Year != 2007 {
		t.Fatalf("narrator/year not applied: %q %d", tg.Narrator, tg.Year)
	}
}

func TestApplyChapterTagsPreservesExistingWhenSourceUntagged(t *testing.T) {
	tg := audiometa.Tags{Artist: "Existing Artist", Album: "Existing Album", Year: 1999}
	applyChapterTags(&tg, tags.Info{}, "Chapter 1", 1, 2)

	if tg.Artist != "Existing Artist" || tg.Album != "Existing Album" || tg.Year != 1999 {
		t.Fatalf("empty source tags must not clobber existing ones: %+v", tg)
	}
	if tg.Title != "Chapter 1" || tg.TrackNumber != 1 {
		t.Fatalf("chapter fields missing: %+v", tg)
	}
}

func TestStampSkipsUntaggableFormats(t *testing.T) {
	s := New(logging.NewNop())
	// The file deliberately does not exist: the extension gate must short
	// circuit before any open attempt.
	if err := s.Stamp(filepath.Join(t.TempDir(), "book_01_Intro.wav"), tags.Info{}, "Intro", 1, 1); err != nil {
		t.Fatalf("Stamp on wav should be a no-op, got %v", err)
	}
}

func TestStampReportsUnreadableFile(t *testing.T) {
	s := New(logging.NewNop())
	missing := filepath.Join(t.TempDir(), "book_01_Intro.mp3")
	if err := s.Stamp(missing, tags.Info{}, "Intro", 1, 1); err == nil {
		t.Fatal("expected error for missing file")
	}
}
