package resolver

import (
	"fmt"
	"strings"
)

// Method selects a boundary detection strategy.
type Method string

const (
	// MethodMetadata reads the container's embedded chapter table, falling
	// back to silence detection when the table is empty.
	MethodMetadata Method = "metadata"
	// MethodSilence splits at the midpoints of detected quiet spans.
	MethodSilence Method = "silence"
	// MethodSpeech scans for spoken chapter announcements.
	MethodSpeech Method = "speech"
	// MethodJSON reads explicit boundaries from a user-supplied file.
	MethodJSON Method = "json"
)

// ParseMethod normalizes a user-supplied method name.
func ParseMethod(value string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(MethodMetadata):
		return MethodMetadata, nil
	case string(MethodSilence):
		return MethodSilence, nil
	case string(MethodSpeech):
		return MethodSpeech, nil
	case string(MethodJSON):
		return MethodJSON, nil
	default:
		return "", fmt.Errorf("unknown method %q (expected metadata, silence, speech, or json)", value)
	}
}
