// Package ffmpeg wraps the ffmpeg CLI for the operations chapterize needs:
// silence scanning, speech clip extraction, and chapter transcoding.
//
// Invocations stream output line by line so silencedetect results can be
// parsed as they arrive and failures carry the final diagnostic lines ffmpeg
// printed. The Executor seam lets tests fake the binary.
package ffmpeg
