package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chapterize/internal/chapters"
)

// Entry is one chapter record in the side-car manifest. The field names and
// shape are the compatibility surface other tooling reads; times are seconds
// from file start.
type Entry struct {
	Index      int     `json:"index"`
	Title      string  `json:"title"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Duration   float64 `json:"duration"`
	OutputPath string  `json:"output_path"`
	Error      string  `json:"error,omitempty"`
}

// FromResults converts exported chapters into manifest entries, preserving
// index order and carrying per-chapter failure text.
func FromResults(results []chapters.Result) []Entry {
	entries := make([]Entry, 0, len(results))
	for _, result := range results {
		entry := Entry{
			Index:      result.Index,
			Title:      result.Title,
			Start:      chapters.Seconds(result.Start),
			End:        chapters.Seconds(result.End),
			Duration:   chapters.Seconds(result.Spec.Duration()),
			OutputPath: result.OutputPath,
		}
		if result.Err != nil {
			entry.Error = result.Err.Error()
		}
		entries = append(entries, entry)
	}
	return entries
}

// Encode renders entries as the manifest's canonical byte form: an indented
// JSON array with a trailing newline. Identical inputs yield identical bytes.
func Encode(entries []Entry) ([]byte, error) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("manifest: encode: %w", err)
	}
	return append(data, '\n'), nil
}

// Write serializes entries to path, overwriting any existing manifest. Each
// run produces a fresh manifest; there is no merge.
func Write(path string, entries []Entry) error {
	data, err := Encode(entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}

// Load reads a manifest produced by Write.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	return entries, nil
}

// DefaultPath places the manifest beside the exported chapters:
// {output_dir}/{input stem}_chapters.json.
func DefaultPath(outputDir, input string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outputDir, stem+"_chapters.json")
}
