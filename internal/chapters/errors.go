package chapters

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for failure classification. Wrap tags errors with one of
// these so callers can map outcomes to exit codes and history statuses with
// errors.Is.
var (
	ErrInputNotFound      = errors.New("input not found")
	ErrProbeFailed        = errors.New("probe failed")
	ErrResolution         = errors.New("chapter resolution failed")
	ErrInvalidChapterFile = errors.New("invalid chapter file")
	ErrTranscodeFailed    = errors.New("transcode failed")
	ErrRecognitionSkipped = errors.New("recognition skipped")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrResolution
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}
