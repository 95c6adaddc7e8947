// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no chapterize-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams, chapters, and format metadata
//   - Stream: individual audio stream properties
//   - Chapter: embedded chapter marker with start/end offsets and title tag
//   - Format: container-level metadata (duration, size, bitrate)
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Helper methods on Result and Chapter provide convenient access to stream
// counts, duration parsing, and chapter offsets.
package ffprobe
