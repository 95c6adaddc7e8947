// Package pipeline ties probing, boundary resolution, chapter export,
// tagging, manifest writing, history, and notifications into one run.
//
// The pipeline stays UI-agnostic: callers receive human-readable Progress
// events through a callback and a Summary describing how the run ended. All
// external collaborators sit behind small interfaces so tests drive the full
// flow with fakes.
package pipeline
