// Package chapters defines the chapter boundary and result types shared by
// the resolver, segmenter, and manifest writer, plus the sentinel error
// markers used to classify run failures.
package chapters
