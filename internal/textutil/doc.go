// Package textutil provides filename sanitization for chapter output files.
package textutil
