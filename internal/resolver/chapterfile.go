package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chapterize/internal/chapters"
)

// chapterFileStrategy reads explicit boundaries from a user-supplied JSON
// file. User intent is authoritative here: no fallback, no opening-credits
// merge, and any malformed record is a hard error.
type chapterFileStrategy struct {
	r *Resolver
}

func (s chapterFileStrategy) resolve(_ context.Context, req request) ([]chapters.Spec, Method, error) {
	specs, err := LoadChapterFile(req.opts.ChapterFile)
	return specs, MethodJSON, err
}

// chapterFileEntry is one record of the user-supplied boundary list. Times
// come as either HH:MM:SS[.fff] strings or integer milliseconds; "name" is
// accepted as an alias for "title".
type chapterFileEntry struct {
	Title   string `json:"title"`
	Name    string `json:"name"`
	Start   string `json:"start"`
	End     string `json:"end"`
	StartMS *int64 `json:"start_ms"`
	EndMS   *int64 `json:"end_ms"`
}

// LoadChapterFile parses and validates a user-supplied chapter list. Every
// failure is tagged chapters.ErrInvalidChapterFile.
func LoadChapterFile(path string) ([]chapters.Spec, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, chapters.Wrap(chapters.ErrInvalidChapterFile, "load", "no chapter file given", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, chapters.Wrap(chapters.ErrInvalidChapterFile, "load", "read "+path, err)
	}

	var entries []chapterFileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, chapters.Wrap(chapters.ErrInvalidChapterFile, "load", "parse "+filepath.Base(path), err)
	}
	if len(entries) == 0 {
		return nil, chapters.Wrap(chapters.ErrInvalidChapterFile, "load", "chapter file contains no entries", nil)
	}

	specs := make([]chapters.Spec, 0, len(entries))
	for i, entry := range entries {
		spec, err := entry.toSpec(i + 1)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (e chapterFileEntry) toSpec(position int) (chapters.Spec, error) {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		title = strings.TrimSpace(e.Name)
	}
	if title == "" {
		title = chapters.DefaultTitle(position)
	}

	hasStart := strings.TrimSpace(e.Start) != ""
	hasEnd := strings.TrimSpace(e.End) != ""

	var start, end time.Duration
	switch {
	case e.StartMS != nil && e.EndMS != nil:
		start = chapters.FromMilliseconds(*e.StartMS)
		end = chapters.FromMilliseconds(*e.EndMS)
	case e.StartMS != nil || e.EndMS != nil:
		return chapters.Spec{}, chapters.Wrap(chapters.ErrInvalidChapterFile, entryRef(position), "start_ms and end_ms must appear together", nil)
	case hasStart && hasEnd:
		var err error
		if start, err = chapters.ParseTimestamp(e.Start); err != nil {
			return chapters.Spec{}, chapters.Wrap(chapters.ErrInvalidChapterFile, entryRef(position), "bad start", err)
		}
		if end, err = chapters.ParseTimestamp(e.End); err != nil {
			return chapters.Spec{}, chapters.Wrap(chapters.ErrInvalidChapterFile, entryRef(position), "bad end", err)
		}
	case hasStart || hasEnd:
		return chapters.Spec{}, chapters.Wrap(chapters.ErrInvalidChapterFile, entryRef(position), "start and end must appear together", nil)
	default:
		return chapters.Spec{}, chapters.Wrap(chapters.ErrInvalidChapterFile, entryRef(position), "needs start/end or start_ms/end_ms", nil)
	}

	spec := chapters.Spec{Title: title, Start: start, End: end}
	if err := spec.Validate(); err != nil {
		return chapters.Spec{}, chapters.Wrap(chapters.ErrInvalidChapterFile, entryRef(position), "", err)
	}
	return spec, nil
}

func entryRef(position int) string {
	return fmt.Sprintf("entry %d", position)
}
