package tagging

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/simonhull/audiometa"

	"chapterize/internal/logging"
	"chapterize/internal/media/tags"
)

// writableExtensions lists the export formats that take embedded tags.
var writableExtensions = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".m4b":  {},
	".flac": {},
}

// Stamper writes per-chapter track metadata onto exported files.
type Stamper struct {
	logger *slog.Logger
}

// New constructs a Stamper.
func New(logger *slog.Logger) *Stamper {
	return &Stamper{logger: logging.NewComponentLogger(logger, "tagging")}
}

// Writable reports whether tags can be written onto path's format.
func Writable(path string) bool {
	_, ok := writableExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Stamp writes chapter metadata onto one exported file: the chapter title as
// the track title, the chapter position as the track number, and the source
// book's tags as the album context. Formats without tag support are skipped.
func (s *Stamper) Stamp(path string, book tags.Info, chapterTitle string, index, total int) error {
	if !Writable(path) {
		s.logger.Debug("format takes no tags, skipping",
			logging.String(logging.FieldOutput, path))
		return nil
	}

	file, err := audiometa.Open(path)
	if err != nil {
		return fmt.Errorf("open %s for tagging: %w", filepath.Base(path), err)
	}
	defer file.Close()

	applyChapterTags(&file.Tags, book, chapterTitle, index, total)

	if err := file.Save(); err != nil {
		var unsupported *audiometa.UnsupportedWriteError
		if errors.As(err, &unsupported) {
			s.logger.Warn("tag writes unsupported for format",
				logging.String(logging.FieldOutput, path))
			return nil
		}
		return fmt.Errorf("save tags to %s: %w", filepath.Base(path), err)
	}
	return nil
}

// applyChapterTags maps book and chapter context onto container tags.
// Book-level fields fill only when the source actually carried them.
func applyChapterTags(t *audiometa.Tags, book tags.Info, chapterTitle string, index, total int) {
	t.Title = chapterTitle
	t.TrackNumber = index
	t.TrackTotal = total
	if book.Title != "" {
		t.Album = book.Title
	}
	if book.Artist != "" {
		t.Artist = book.Artist
	}
	if book.Narrator != "" {
		t.Narrator = book.Narrator
	}
	if book.Year != 0 {
		t.Year = book.Year
	}
}
