package pipeline

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"chapterize/internal/chapters"
	"chapterize/internal/config"
	"chapterize/internal/resolver"
)

// Request describes one split invocation. Option fields left at their zero
// value are filled from config defaults before validation.
type Request struct {
	Input       string `validate:"required"`
	OutputDir   string
	Method      string `validate:"required"`
	ChapterFile string `validate:"required_if=Method json"`
	Format      string `validate:"required,oneof=mp3 m4a m4b wav"`
	Bitrate     string `validate:"omitempty,bitrate"`
	Mono        bool
	Jobs        int `validate:"gte=0,lte=32"`
}

// NewRequest seeds a Request for input with the configured defaults.
func NewRequest(cfg *config.Config, input string) Request {
	return Request{
		Input:     input,
		OutputDir: cfg.Paths.OutputDir,
		Method:    cfg.Resolver.Method,
		Format:    cfg.Export.Format,
		Bitrate:   cfg.Export.Bitrate,
		Mono:      cfg.Export.Mono,
		Jobs:      cfg.Export.Jobs,
	}
}

var bitratePattern = regexp.MustCompile(`^[0-9]+k$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("bitrate", func(fl validator.FieldLevel) bool {
		return bitratePattern.MatchString(fl.Field().String())
	})
	return v
}

// normalize trims and lowercases option fields, fills gaps from cfg, and
// resolves the output directory. An unset output directory lands beside the
// input as {stem}_chapters.
func (r *Request) normalize(cfg *config.Config) {
	r.Input = strings.TrimSpace(r.Input)
	r.ChapterFile = strings.TrimSpace(r.ChapterFile)
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	r.Bitrate = strings.ToLower(strings.TrimSpace(r.Bitrate))
	r.OutputDir = strings.TrimSpace(r.OutputDir)

	if r.Method == "" {
		r.Method = cfg.Resolver.Method
	}
	if r.Format == "" {
		r.Format = cfg.Export.Format
	}
	if r.Bitrate == "" {
		r.Bitrate = cfg.Export.Bitrate
	}
	if r.Jobs <= 0 {
		r.Jobs = cfg.Export.Jobs
	}
	if r.OutputDir == "" {
		r.OutputDir = strings.TrimSpace(cfg.Paths.OutputDir)
	}
	if r.OutputDir == "" && r.Input != "" {
		stem := strings.TrimSuffix(filepath.Base(r.Input), filepath.Ext(r.Input))
		r.OutputDir = filepath.Join(filepath.Dir(r.Input), stem+"_chapters")
	}
}

// check validates field shapes and the method name ahead of any external
// call, returning the parsed method.
func (r *Request) check(v *validator.Validate) (resolver.Method, error) {
	if err := v.Struct(r); err != nil {
		return "", fmt.Errorf("invalid request: %w", err)
	}
	method, err := resolver.ParseMethod(r.Method)
	if err != nil {
		return "", chapters.Wrap(chapters.ErrResolution, "request", "", err)
	}
	return method, nil
}
