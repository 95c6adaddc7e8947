package deps

import (
	"runtime"
	"strings"

	"chapterize/internal/config"
)

// Requirements lists the external binaries a split run shells out to, using
// the configured paths.
func Requirements(cfg *config.Config) []Requirement {
	ffmpeg := "ffmpeg"
	ffprobe := "ffprobe"
	if cfg != nil {
		ffmpeg = cfg.FFmpegBinary()
		ffprobe = cfg.FFprobeBinary()
	}
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpeg,
			Description: "Silence detection, clip extraction, and chapter transcoding",
		},
		{
			Name:        "FFprobe",
			Command:     ffprobe,
			Description: "Container probing: duration, streams, embedded chapters",
		},
	}
}

// Check evaluates the configured requirements.
func Check(cfg *config.Config) []Status {
	return CheckBinaries(Requirements(cfg))
}

// Missing reports the required statuses that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			missing = append(missing, status)
		}
	}
	return missing
}

// InstallHint suggests how to install a missing dependency on the current
// platform. FFmpeg and FFprobe ship in the same package everywhere.
func InstallHint(status Status) string {
	name := strings.ToLower(strings.TrimSpace(status.Name))
	if name != "ffmpeg" && name != "ffprobe" {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return "brew install ffmpeg"
	case "windows":
		return "winget install ffmpeg (or download from https://ffmpeg.org)"
	default:
		return "apt install ffmpeg (or the equivalent for your distribution)"
	}
}
