package segmenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"chapterize/internal/chapters"
	"chapterize/internal/fileutil"
	"chapterize/internal/logging"
	"chapterize/internal/media/ffmpeg"
	"chapterize/internal/textutil"
)

// Transcoder renders one chapter slice into an output file.
type Transcoder interface {
	Transcode(ctx context.Context, job ffmpeg.Job) error
}

// Options carries export parameters for one run.
type Options struct {
	OutputDir string
	Format    string
	Bitrate   string
	Mono      bool

	// Jobs bounds concurrent transcodes. Values below one mean sequential.
	Jobs int

	// OnChapterStart, when set, observes each chapter as its transcode
	// begins. With Jobs above one, starts interleave with completions.
	OnChapterStart func(index, total int, spec chapters.Spec)

	// OnChapter, when set, observes each finished chapter in completion
	// order, including flagged failures.
	OnChapter func(completed, total int, result chapters.Result)
}

// Segmenter exports resolved chapters as individual audio files.
type Segmenter struct {
	transcoder Transcoder
	logger     *slog.Logger
}

// New constructs a Segmenter.
func New(transcoder Transcoder, logger *slog.Logger) *Segmenter {
	return &Segmenter{
		transcoder: transcoder,
		logger:     logging.NewComponentLogger(logger, "segmenter"),
	}
}

// Export renders every chapter of input into opts.OutputDir. A failed chapter
// is flagged on its Result and does not stop the remaining chapters; only
// cancellation aborts the run, in which case the partially written output of
// the in-flight chapter is removed and no results are returned.
func (s *Segmenter) Export(ctx context.Context, input string, specs []chapters.Spec, opts Options) ([]chapters.Result, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errors.New("segmenter: input path required")
	}
	if len(specs) == 0 {
		return nil, errors.New("segmenter: no chapters to export")
	}
	outputDir := strings.TrimSpace(opts.OutputDir)
	if outputDir == "" {
		return nil, errors.New("segmenter: output directory required")
	}
	if err := fileutil.EnsureDir(outputDir); err != nil {
		return nil, fmt.Errorf("segmenter: create output directory: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	results := make([]chapters.Result, len(specs))
	for i, spec := range specs {
		results[i] = chapters.Result{
			Spec:       spec,
			Index:      i + 1,
			OutputPath: filepath.Join(outputDir, OutputName(stem, i+1, spec.Title, opts.Format)),
		}
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	var mu sync.Mutex
	completed := 0
	notify := func(result chapters.Result) {
		if opts.OnChapter == nil {
			return
		}
		mu.Lock()
		completed++
		done := completed
		mu.Unlock()
		opts.OnChapter(done, len(results), result)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := &results[i]
			if opts.OnChapterStart != nil {
				opts.OnChapterStart(result.Index, len(results), result.Spec)
			}
			job := ffmpeg.Job{
				Input:    input,
				Output:   result.OutputPath,
				Start:    result.Start,
				Duration: result.Spec.Duration(),
				Format:   opts.Format,
				Bitrate:  opts.Bitrate,
				Mono:     opts.Mono,
			}
			if err := s.transcoder.Transcode(gctx, job); err != nil {
				if removeErr := fileutil.RemoveIfExists(result.OutputPath); removeErr != nil {
					s.logger.Warn("could not remove partial output",
						logging.String(logging.FieldOutput, result.OutputPath),
						logging.Error(removeErr))
				}
				if gctx.Err() != nil {
					return gctx.Err()
				}
				result.Err = chapters.Wrap(chapters.ErrTranscodeFailed, "export", fmt.Sprintf("chapter %02d", result.Index), err)
				result.OutputPath = ""
				s.logger.Error("chapter export failed",
					logging.Int(logging.FieldChapter, result.Index),
					logging.String(logging.FieldTitle, result.Title),
					logging.Error(err))
				notify(*result)
				return nil
			}
			s.logger.Info("chapter exported",
				logging.Int(logging.FieldChapter, result.Index),
				logging.String(logging.FieldTitle, result.Title),
				logging.String(logging.FieldOutput, result.OutputPath))
			notify(*result)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// OutputName builds the deterministic chapter filename:
// {stem}_{index:02d}_{sanitized_title}.{ext}. Titles that sanitize to nothing
// fall back to a generated chapter name so the file still identifies itself.
func OutputName(stem string, index int, title, format string) string {
	sanitized := textutil.SanitizeFileName(title)
	if sanitized == "" {
		sanitized = textutil.SanitizeFileName(chapters.DefaultTitle(index))
	}
	ext := strings.ToLower(strings.TrimSpace(format))
	return fmt.Sprintf("%s_%02d_%s.%s", stem, index, sanitized, ext)
}
