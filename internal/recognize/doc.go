// Package recognize uploads short audio clips to an OpenAI-compatible
// transcription endpoint and returns the recognized text. The speech boundary
// strategy uses it to find chapter announcements near candidate split points.
package recognize
