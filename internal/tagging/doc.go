// Package tagging stamps track metadata onto exported chapter files.
//
// Each chapter becomes a numbered track carrying its own title, with the
// source book's tags providing the album context. Formats without tag
// support are skipped rather than failing the export.
package tagging
