// Package segmenter renders a resolved chapter list into per-chapter audio
// files. Each chapter is an independent ffmpeg invocation; failures are
// flagged per chapter rather than aborting the run, and cancellation removes
// the in-flight chapter's partial output.
package segmenter
