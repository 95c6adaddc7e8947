package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"chapterize/internal/chapters"
	"chapterize/internal/config"
	"chapterize/internal/deps"
	"chapterize/internal/fileutil"
	"chapterize/internal/history"
	"chapterize/internal/logging"
	"chapterize/internal/manifest"
	"chapterize/internal/media/ffmpeg"
	"chapterize/internal/media/ffprobe"
	"chapterize/internal/media/tags"
	"chapterize/internal/notify"
	"chapterize/internal/recognize"
	"chapterize/internal/resolver"
	"chapterize/internal/segmenter"
	"chapterize/internal/tagging"
)

// Prober inspects an input container.
type Prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Stamper writes chapter tags onto an exported file.
type Stamper interface {
	Stamp(path string, book tags.Info, chapterTitle string, index, total int) error
}

// Recorder persists one finished run.
type Recorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// Deps carries the pipeline's external collaborators. Nil fields are filled
// with the real implementations derived from config.
type Deps struct {
	Probe      Prober
	Silence    resolver.SilenceScanner
	Clips      resolver.ClipExtractor
	Recognizer resolver.Recognizer
	Transcoder segmenter.Transcoder
	Stamper    Stamper
	Recorder   Recorder
	Notifier   notify.Service
}

// Pipeline executes the full split flow for one input at a time.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	validator *validator.Validate

	probe     Prober
	resolver  *resolver.Resolver
	segmenter *segmenter.Segmenter
	stamper   Stamper
	recorder  Recorder
	notifier  notify.Service
}

// New constructs a Pipeline backed by the real tool clients.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	return NewWithDeps(cfg, logger, Deps{})
}

// NewWithDeps constructs a Pipeline, substituting any provided collaborators.
func NewWithDeps(cfg *config.Config, logger *slog.Logger, d Deps) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}

	var client *ffmpeg.Client
	ffclient := func() *ffmpeg.Client {
		if client == nil {
			client = ffmpeg.New(cfg.FFmpegBinary())
		}
		return client
	}
	if d.Probe == nil {
		d.Probe = ffprobe.Inspect
	}
	if d.Silence == nil {
		d.Silence = ffclient()
	}
	if d.Clips == nil {
		d.Clips = ffclient()
	}
	if d.Transcoder == nil {
		d.Transcoder = ffclient()
	}
	if d.Recognizer == nil {
		if endpoint := strings.TrimSpace(cfg.Speech.Endpoint); endpoint != "" {
			rec, err := recognize.New(endpoint, cfg.Speech.Model, cfg.Speech.APIKey, cfg.SpeechRequestTimeout())
			if err != nil {
				logger.Warn("speech endpoint unusable", logging.Error(err))
			} else {
				d.Recognizer = rec
			}
		}
	}
	if d.Stamper == nil {
		d.Stamper = tagging.New(logger)
	}
	if d.Recorder == nil {
		d.Recorder = storeRecorder{cfg: cfg}
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewService(cfg)
	}

	return &Pipeline{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		validator: newValidator(),
		probe:     d.Probe,
		resolver: resolver.New(resolver.Deps{
			Silence:    d.Silence,
			Clips:      d.Clips,
			Recognizer: d.Recognizer,
			Logger:     logger,
		}),
		segmenter: segmenter.New(d.Transcoder, logger),
		stamper:   d.Stamper,
		recorder:  d.Recorder,
		notifier:  d.Notifier,
	}
}

// Run executes probe, resolve, export, tag, and manifest for req, recording
// the outcome in history and notifying per config. onProgress may be nil.
//
// Fatal errors before any transcode return a nil Summary. Per-chapter export
// failures do not: the Summary reports a partial or failed status and the
// error stays nil so callers read the outcome from Status.
func (p *Pipeline) Run(ctx context.Context, req Request, onProgress func(Progress)) (*Summary, error) {
	emit := func(stage Stage, pct float64, message string) {
		if onProgress != nil {
			onProgress(Progress{Stage: stage, Percent: pct, Message: message})
		}
	}

	req.normalize(p.cfg)
	method, err := req.check(p.validator)
	if err != nil {
		return nil, err
	}
	if !fileutil.IsFile(req.Input) {
		return nil, chapters.Wrap(chapters.ErrInputNotFound, "load", req.Input, nil)
	}
	if missing := deps.Missing(deps.Check(p.cfg)); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, status := range missing {
			names = append(names, status.Name)
		}
		return nil, fmt.Errorf("missing required tools: %s (run 'chapterize deps' for install hints)", strings.Join(names, ", "))
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		Input:     req.Input,
		BookTitle: tags.DeriveTitle(req.Input),
		OutputDir: req.OutputDir,
		Method:    method,
		Format:    req.Format,
		Bitrate:   req.Bitrate,
		Mono:      req.Mono,
		StartedAt: time.Now().UTC(),
	}
	logger := p.logger.With(
		logging.String(logging.FieldRunID, summary.RunID),
		logging.String(logging.FieldInput, req.Input))
	logger.Info("run started", logging.String(logging.FieldMethod, string(method)))

	emit(StageProbe, -1, fmt.Sprintf("Loading audiobook: %s", filepath.Base(req.Input)))
	probe, err := p.probe(ctx, p.cfg.FFprobeBinary(), req.Input)
	if err != nil {
		return nil, p.finishFatal(ctx, summary, logger,
			chapters.Wrap(chapters.ErrProbeFailed, "probe", filepath.Base(req.Input), err))
	}
	probe = p.patchDuration(probe, req.Input, logger)
	duration := chapters.FromSeconds(probe.DurationSeconds())
	if duration <= 0 {
		return nil, p.finishFatal(ctx, summary, logger,
			chapters.Wrap(chapters.ErrProbeFailed, "probe", "no usable duration", nil))
	}
	emit(StageProbe, -1, fmt.Sprintf("Duration: %s", chapters.FormatTimestamp(duration)))

	book, tagErr := tags.ReadInfo(req.Input)
	if tagErr != nil {
		logger.Debug("input tags unreadable", logging.Error(tagErr))
	}
	summary.BookTitle = book.DisplayTitle(req.Input)

	specs, used, err := p.resolver.Resolve(ctx, req.Input, probe, p.resolveOptions(req, method))
	if err != nil {
		return nil, p.finishFatal(ctx, summary, logger, err)
	}
	summary.Method = used
	emit(StageResolve, -1, fmt.Sprintf("Detected %d chapters:", len(specs)))
	for _, spec := range specs {
		emit(StageResolve, -1, fmt.Sprintf("  %s: %s - %s (%s)",
			spec.Title,
			chapters.FormatTimestamp(spec.Start),
			chapters.FormatTimestamp(spec.End),
			chapters.FormatTimestamp(spec.Duration())))
	}

	emit(StageExport, 0, fmt.Sprintf("Exporting chapters to %s/", req.OutputDir))
	results, err := p.segmenter.Export(ctx, req.Input, specs, segmenter.Options{
		OutputDir: req.OutputDir,
		Format:    req.Format,
		Bitrate:   req.Bitrate,
		Mono:      req.Mono,
		Jobs:      req.Jobs,
		OnChapterStart: func(index, total int, spec chapters.Spec) {
			emit(StageExport, percent(index-1, total), fmt.Sprintf("  Exporting %s...", spec.Title))
		},
		OnChapter: func(completed, total int, result chapters.Result) {
			message := ""
			if result.Failed() {
				message = fmt.Sprintf("  Failed %s", result.Title)
			}
			emit(StageExport, percent(completed, total), message)
		},
	})
	if err != nil {
		return nil, p.finishFatal(ctx, summary, logger, err)
	}

	summary.Results = results
	for _, result := range results {
		if result.Failed() {
			summary.FailedCount++
		} else {
			summary.ExportedCount++
		}
	}
	switch {
	case summary.FailedCount == 0:
		summary.Status = history.StatusCompleted
	case summary.ExportedCount == 0:
		summary.Status = history.StatusFailed
	default:
		summary.Status = history.StatusPartial
	}

	if p.cfg.Export.TagOutputs && summary.ExportedCount > 0 {
		emit(StageTag, -1, "Writing chapter tags...")
		p.stampResults(results, book, logger)
	}

	entries := manifest.FromResults(results)
	manifestPath := manifest.DefaultPath(req.OutputDir, req.Input)
	manifestJSON, manifestErr := manifest.Encode(entries)
	if manifestErr == nil {
		manifestErr = manifest.Write(manifestPath, entries)
	}
	if manifestErr == nil {
		summary.ManifestPath = manifestPath
		emit(StageFinish, 100, fmt.Sprintf("Metadata saved to: %s", manifestPath))
	}

	summary.FinishedAt = time.Now().UTC()
	p.record(ctx, summary, string(manifestJSON), manifestErr, logger)
	p.notifyOutcome(ctx, summary, logger)
	logger.Info("run finished",
		logging.String("status", string(summary.Status)),
		logging.Int("chapter_count", summary.ChapterCount()),
		logging.Int("failed_count", summary.FailedCount),
		logging.Duration("elapsed", summary.Elapsed()))

	if manifestErr != nil {
		return summary, manifestErr
	}
	return summary, nil
}

// Preview resolves chapter boundaries for req without exporting anything.
// Nothing is recorded in history and no notification fires.
func (p *Pipeline) Preview(ctx context.Context, req Request) ([]chapters.Spec, resolver.Method, error) {
	req.normalize(p.cfg)
	method, err := req.check(p.validator)
	if err != nil {
		return nil, method, err
	}
	if !fileutil.IsFile(req.Input) {
		return nil, method, chapters.Wrap(chapters.ErrInputNotFound, "load", req.Input, nil)
	}

	probe, err := p.probe(ctx, p.cfg.FFprobeBinary(), req.Input)
	if err != nil {
		return nil, method, chapters.Wrap(chapters.ErrProbeFailed, "probe", filepath.Base(req.Input), err)
	}
	probe = p.patchDuration(probe, req.Input, p.logger)
	if chapters.FromSeconds(probe.DurationSeconds()) <= 0 {
		return nil, method, chapters.Wrap(chapters.ErrProbeFailed, "probe", "no usable duration", nil)
	}

	return p.resolver.Resolve(ctx, req.Input, probe, p.resolveOptions(req, method))
}

func (p *Pipeline) resolveOptions(req Request, method resolver.Method) resolver.Options {
	return resolver.Options{
		Method:            method,
		ChapterFile:       req.ChapterFile,
		OpeningCreditsMax: p.cfg.OpeningCreditsMax(),
		MinChapterLength:  p.cfg.MinChapterLength(),
		ThresholdDB:       p.cfg.Silence.ThresholdDB,
		MinSilence:        p.cfg.Silence.MinSilence,
		SpeechInterval:    p.cfg.SpeechInterval(),
		SpeechWindow:      p.cfg.SpeechWindow(),
	}
}

// finishFatal closes out a run that died before producing results. A fatal
// error caused by cancellation is recorded as canceled rather than failed.
func (p *Pipeline) finishFatal(ctx context.Context, summary *Summary, logger *slog.Logger, runErr error) error {
	summary.FinishedAt = time.Now().UTC()
	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		summary.Status = history.StatusCanceled
		p.record(ctx, summary, "", runErr, logger)
		logger.Warn("run canceled", logging.Error(runErr))
		return runErr
	}

	summary.Status = history.StatusFailed
	p.record(ctx, summary, "", runErr, logger)
	if p.notifier != nil {
		if err := p.notifier.NotifyRunFailed(ctx, summary.BookTitle, runErr); err != nil {
			logger.Warn("notification failed", logging.Error(err))
		}
	}
	logger.Error("run failed", logging.Error(runErr))
	return runErr
}

func (p *Pipeline) record(ctx context.Context, summary *Summary, manifestJSON string, runErr error, logger *slog.Logger) {
	if p.recorder == nil || !p.cfg.History.Enabled {
		return
	}
	run := &history.Run{
		RunID:        summary.RunID,
		Input:        summary.Input,
		OutputDir:    summary.OutputDir,
		Method:       string(summary.Method),
		Format:       summary.Format,
		Bitrate:      summary.Bitrate,
		Mono:         summary.Mono,
		ChapterCount: summary.ChapterCount(),
		FailedCount:  summary.FailedCount,
		Status:       summary.Status,
		ManifestPath: summary.ManifestPath,
		ManifestJSON: manifestJSON,
		StartedAt:    summary.StartedAt,
		FinishedAt:   summary.FinishedAt,
	}
	if runErr != nil {
		run.ErrorText = runErr.Error()
	}
	// Recording must survive the run's own cancellation.
	if err := p.recorder.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("history record failed", logging.Error(err))
	}
}

func (p *Pipeline) notifyOutcome(ctx context.Context, summary *Summary, logger *slog.Logger) {
	if p.notifier == nil {
		return
	}
	var err error
	switch summary.Status {
	case history.StatusCompleted:
		err = p.notifier.NotifyRunCompleted(ctx, summary.BookTitle, summary.ChapterCount(), summary.Elapsed())
	case history.StatusPartial:
		err = p.notifier.NotifyRunPartial(ctx, summary.BookTitle, summary.ExportedCount, summary.FailedCount)
	case history.StatusFailed:
		err = p.notifier.NotifyRunFailed(ctx, summary.BookTitle, errors.New("no chapters exported"))
	}
	if err != nil {
		logger.Warn("notification failed", logging.Error(err))
	}
}

func (p *Pipeline) stampResults(results []chapters.Result, book tags.Info, logger *slog.Logger) {
	for _, result := range results {
		if result.Failed() {
			continue
		}
		if err := p.stamper.Stamp(result.OutputPath, book, result.Title, result.Index, len(results)); err != nil {
			logger.Warn("chapter tagging failed",
				logging.Int(logging.FieldChapter, result.Index),
				logging.Error(err))
		}
	}
}

// patchDuration recovers the container duration with an mp3 frame walk when
// ffprobe reports none. VBR files without a Xing header hit this.
func (p *Pipeline) patchDuration(probe ffprobe.Result, input string, logger *slog.Logger) ffprobe.Result {
	if probe.DurationSeconds() > 0 {
		return probe
	}
	if !strings.EqualFold(filepath.Ext(input), ".mp3") {
		return probe
	}
	measured, err := tags.MP3Duration(input)
	if err != nil || measured <= 0 {
		if err != nil {
			logger.Debug("mp3 frame walk failed", logging.Error(err))
		}
		return probe
	}
	probe.Format.Duration = strconv.FormatFloat(measured.Seconds(), 'f', 6, 64)
	logger.Debug("duration recovered from mp3 frames", logging.Duration("duration", measured))
	return probe
}

func percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// storeRecorder opens the history store just long enough to insert one row,
// keeping the single-writer lock window small.
type storeRecorder struct {
	cfg *config.Config
}

func (r storeRecorder) Record(ctx context.Context, run *history.Run) error {
	store, err := history.Open(r.cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Insert(ctx, run)
}
