// Package watch monitors an inbox directory for incoming audiobooks. A file
// is handed off only after its size has stopped changing for a settle
// interval, so half-copied books never reach the pipeline.
package watch
