// Package manifest writes and reads the JSON side-car describing a finished
// run: one entry per chapter with boundaries in seconds, the exported file
// path, and failure text for chapters that did not transcode.
package manifest
