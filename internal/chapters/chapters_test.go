package chapters_test

import (
	"errors"
	"testing"
	"time"

	"chapterize/internal/chapters"
)

func TestParseTimestampForms(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"00:00:00", 0},
		{"01:02:03", time.Hour + 2*time.Minute + 3*time.Second},
		{"02:03", 2*time.Minute + 3*time.Second},
		{"123", 123 * time.Second},
		{"123.5", 123*time.Second + 500*time.Millisecond},
		{"00:00:01.250", time.Second + 250*time.Millisecond},
		{" 10:00 ", 10 * time.Minute},
	}
	for _, tc := range cases {
		got, err := chapters.ParseTimestamp(tc.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTimestamp(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseTimestampRejectsMalformedInput(t *testing.T) {
	for _, in := range []string{"", "  ", "1:2:3:4", "abc", "00:xx:00", "-5", "00:-1:00"} {
		if _, err := chapters.ParseTimestamp(in); err == nil {
			t.Fatalf("ParseTimestamp(%q) succeeded, want error", in)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{45*time.Minute + 500*time.Millisecond, "00:45:00"},
		{-time.Second, "00:00:00"},
	}
	for _, tc := range cases {
		if got := chapters.FormatTimestamp(tc.in); got != tc.want {
			t.Fatalf("FormatTimestamp(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSpecValidate(t *testing.T) {
	valid := chapters.Spec{Title: "Chapter 1", Start: 0, End: time.Minute}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}

	inverted := chapters.Spec{Title: "Chapter 2", Start: time.Minute, End: time.Minute}
	if err := inverted.Validate(); err == nil {
		t.Fatal("expected error for end == start")
	}

	negative := chapters.Spec{Title: "Chapter 3", Start: -time.Second, End: time.Minute}
	if err := negative.Validate(); err == nil {
		t.Fatal("expected error for negative start")
	}
}

func TestValidateSequenceRejectsOverlap(t *testing.T) {
	specs := []chapters.Spec{
		{Title: "Chapter 1", Start: 0, End: 10 * time.Minute},
		{Title: "Chapter 2", Start: 9 * time.Minute, End: 20 * time.Minute},
	}
	if err := chapters.ValidateSequence(specs); err == nil {
		t.Fatal("expected overlap error")
	}

	specs[1].Start = 10 * time.Minute
	if err := chapters.ValidateSequence(specs); err != nil {
		t.Fatalf("adjacent chapters rejected: %v", err)
	}

	// Gaps are allowed at this level.
	specs[1].Start = 12 * time.Minute
	if err := chapters.ValidateSequence(specs); err != nil {
		t.Fatalf("gapped chapters rejected: %v", err)
	}
}

func TestWrapTagsMarker(t *testing.T) {
	err := chapters.Wrap(chapters.ErrTranscodeFailed, "export chapter 3", "ffmpeg exited", errors.New("exit status 1"))
	if !errors.Is(err, chapters.ErrTranscodeFailed) {
		t.Fatalf("wrapped error lost its marker: %v", err)
	}
	if got := err.Error(); got == "" || !errors.Is(err, chapters.ErrTranscodeFailed) {
		t.Fatalf("unexpected error text: %q", got)
	}
}

func TestFromSecondsRoundsToMillisecond(t *testing.T) {
	if got := chapters.FromSeconds(1.2345); got != 1235*time.Millisecond {
		t.Fatalf("FromSeconds(1.2345) = %s, want 1.235s", got)
	}
	if got := chapters.FromSeconds(2700); got != 45*time.Minute {
		t.Fatalf("FromSeconds(2700) = %s, want 45m", got)
	}
	if chapters.FromSeconds(0) != 0 {
		t.Fatal("zero seconds should map to zero duration")
	}
}
