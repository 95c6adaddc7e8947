package resolver

import (
	"context"
	"log/slog"
	"time"

	"chapterize/internal/chapters"
	"chapterize/internal/logging"
	"chapterize/internal/media/ffmpeg"
	"chapterize/internal/media/ffprobe"
)

// SilenceScanner locates quiet spans in an audio file.
type SilenceScanner interface {
	DetectSilence(ctx context.Context, path string, thresholdDB, minSilence float64) ([]ffmpeg.Silence, error)
}

// ClipExtractor renders short waveform clips for transcription.
type ClipExtractor interface {
	ExtractClip(ctx context.Context, src string, start, duration time.Duration, dest string) error
}

// Recognizer converts an audio clip to text.
type Recognizer interface {
	Recognize(ctx context.Context, clipPath string) (string, error)
}

// Options carries per-run boundary detection parameters.
type Options struct {
	Method Method

	// ChapterFile is the user-supplied boundary list for the json method.
	ChapterFile string

	// OpeningCreditsMax folds a shorter-than-this leading segment into
	// chapter 1. Applies to auto-detecting methods only.
	OpeningCreditsMax time.Duration

	// MinChapterLength suppresses silence midpoints that would produce
	// chapters shorter than this. Zero disables the floor.
	MinChapterLength time.Duration

	// ThresholdDB and MinSilence parameterize the silencedetect filter.
	ThresholdDB float64
	MinSilence  float64

	// SpeechInterval is the scan stride and SpeechWindow the clip length
	// for the speech method.
	SpeechInterval time.Duration
	SpeechWindow   time.Duration
}

// Deps carries the external collaborators a Resolver needs. Recognizer may be
// nil when the speech method is never selected.
type Deps struct {
	Silence    SilenceScanner
	Clips      ClipExtractor
	Recognizer Recognizer
	Logger     *slog.Logger
}

// Resolver turns an input file into an ordered chapter list using the
// selected strategy.
type Resolver struct {
	silence    SilenceScanner
	clips      ClipExtractor
	recognizer Recognizer
	logger     *slog.Logger
}

// New constructs a Resolver.
func New(deps Deps) *Resolver {
	return &Resolver{
		silence:    deps.Silence,
		clips:      deps.Clips,
		recognizer: deps.Recognizer,
		logger:     logging.NewComponentLogger(deps.Logger, "resolver"),
	}
}

// request bundles the inputs every strategy receives.
type request struct {
	input string
	probe ffprobe.Result
	opts  Options
}

// strategy is the shared contract each boundary detection variant implements.
// The returned Method identifies which strategy actually produced the specs,
// which differs from the requested one after a fallback.
type strategy interface {
	resolve(ctx context.Context, req request) ([]chapters.Spec, Method, error)
}

// Resolve produces the ordered chapter list for input, along with the method
// that actually produced it (metadata and speech fall back to silence). The
// probe result must come from inspecting the same path; it supplies the file
// duration and any embedded chapter table so no strategy probes twice.
func (r *Resolver) Resolve(ctx context.Context, input string, probe ffprobe.Result, opts Options) ([]chapters.Spec, Method, error) {
	strat, err := r.strategyFor(opts.Method)
	if err != nil {
		return nil, opts.Method, err
	}

	specs, used, err := strat.resolve(ctx, request{input: input, probe: probe, opts: opts})
	if err != nil {
		return nil, used, err
	}
	if len(specs) == 0 {
		return nil, used, chapters.Wrap(chapters.ErrResolution, string(used), "no chapter boundaries determined", nil)
	}

	if err := chapters.ValidateSequence(specs); err != nil {
		marker := chapters.ErrResolution
		if used == MethodJSON {
			marker = chapters.ErrInvalidChapterFile
		}
		return nil, used, chapters.Wrap(marker, string(used), "inconsistent chapter sequence", err)
	}

	r.logger.Info("chapters resolved",
		logging.String(logging.FieldMethod, string(used)),
		logging.Int("chapter_count", len(specs)))
	return specs, used, nil
}

func (r *Resolver) strategyFor(method Method) (strategy, error) {
	switch method {
	case MethodMetadata:
		return metadataStrategy{r}, nil
	case MethodSilence:
		return silenceStrategy{r}, nil
	case MethodSpeech:
		return speechStrategy{r}, nil
	case MethodJSON:
		return chapterFileStrategy{r}, nil
	default:
		return nil, chapters.Wrap(chapters.ErrResolution, "resolve", "unknown method "+string(method), nil)
	}
}

// fileDuration extracts a usable total duration from the probe result.
func fileDuration(probe ffprobe.Result) (time.Duration, bool) {
	seconds := probe.DurationSeconds()
	duration := chapters.FromSeconds(seconds)
	if duration <= 0 {
		return 0, false
	}
	return duration, true
}
