package textutil

import (
	"strings"
	"unicode"
)

// fileNameReplacer drops characters that are unsafe in filenames across
// common filesystems.
var fileNameReplacer = strings.NewReplacer(
	"/", "",
	"\\", "",
	":", "",
	"*", "",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes a chapter title safe for use in an output filename.
// Filesystem-unsafe characters are removed and every run of whitespace is
// collapsed to a single underscore.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(fileNameReplacer.Replace(name))
	if name == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(name))
	pendingSep := false
	for _, r := range name {
		if unicode.IsSpace(r) {
			pendingSep = b.Len() > 0
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
