package tags

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dhowden/tag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Info carries the container tags chapterize cares about. Audiobook rips
// conventionally store the author in the artist frame and the narrator in the
// composer frame.
type Info struct {
	Title    string
	Artist   string
	Album    string
	Narrator string
	Year     int
}

// ReadInfo extracts tag metadata from the file at path. Untagged or
// unsupported containers return an error; callers treat tags as optional.
func ReadInfo(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return Info{}, err
	}

	return Info{
		Title:    strings.TrimSpace(meta.Title()),
		Artist:   strings.TrimSpace(meta.Artist()),
		Album:    strings.TrimSpace(meta.Album()),
		Narrator: strings.TrimSpace(meta.Composer()),
		Year:     meta.Year(),
	}, nil
}

// DisplayTitle returns the tagged title when present, otherwise a cleaned-up
// rendition of the file name.
func (i Info) DisplayTitle(path string) string {
	if title := strings.TrimSpace(i.Title); title != "" {
		return title
	}
	return DeriveTitle(path)
}

// DeriveTitle produces a human-readable book title from a file path by
// collapsing separator runs and title-casing the remainder.
func DeriveTitle(path string) string {
	if path == "" {
		return "Unknown Book"
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Unknown Book"
	}
	return cases.Title(language.Und).String(title)
}
