package resolver

import (
	"testing"
	"time"

	"chapterize/internal/chapters"
)

func TestSpecsFromBoundariesDropsShortLeadingSegment(t *testing.T) {
	bounds := []time.Duration{45 * time.Second, 2700 * time.Second, 5400 * time.Second}
	specs := specsFromBoundaries(bounds, 7200*time.Second, 60*time.Second)

	wantStarts := []time.Duration{0, 2700 * time.Second, 5400 * time.Second}
	if len(specs) != len(wantStarts) {
		t.Fatalf("expected %d chapters, got %d: %+v", len(wantStarts), len(specs), specs)
	}
	for i, want := range wantStarts {
		if specs[i].Start != want {
			t.Fatalf("chapter %d start = %s, want %s", i+1, specs[i].Start, want)
		}
		if specs[i].Title != chapters.DefaultTitle(i+1) {
			t.Fatalf("chapter %d title = %q after merge", i+1, specs[i].Title)
		}
	}
	if specs[len(specs)-1].End != 7200*time.Second {
		t.Fatalf("last chapter end = %s, want 2h", specs[len(specs)-1].End)
	}
}

func TestSpecsFromBoundariesFiltersOutOfRange(t *testing.T) {
	bounds := []time.Duration{
		-5 * time.Second,
		0,
		600 * time.Second,
		600 * time.Second,
		300 * time.Second,
		1200 * time.Second,
	}
	specs := specsFromBoundaries(bounds, 1200*time.Second, 0)
	if len(specs) != 2 {
		t.Fatalf("expected 2 chapters, got %d: %+v", len(specs), specs)
	}
	if specs[0].End != 600*time.Second {
		t.Fatalf("unexpected boundary: %+v", specs)
	}
}

func TestSpecsFromBoundariesEmptyTilesWholeFile(t *testing.T) {
	specs := specsFromBoundaries(nil, 3600*time.Second, 60*time.Second)
	if len(specs) != 1 {
		t.Fatalf("expected single chapter, got %d", len(specs))
	}
	if specs[0].Start != 0 || specs[0].End != 3600*time.Second {
		t.Fatalf("unexpected chapter: %+v", specs[0])
	}
}

func TestMergeOpeningCreditsKeepsFollowingTitle(t *testing.T) {
	specs := []chapters.Spec{
		{Title: "Opening Credits", Start: 0, End: 45 * time.Second},
		{Title: "Chapter One", Start: 45 * time.Second, End: 2700 * time.Second},
		{Title: "Chapter Two", Start: 2700 * time.Second, End: 5400 * time.Second},
	}
	merged := MergeOpeningCredits(specs, 60*time.Second)
	if len(merged) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(merged))
	}
	if merged[0].Title != "Chapter One" || merged[0].Start != 0 {
		t.Fatalf("unexpected merged chapter: %+v", merged[0])
	}
}

func TestMergeOpeningCreditsLeavesLongFirstChapter(t *testing.T) {
	specs := []chapters.Spec{
		{Title: "Chapter One", Start: 0, End: 120 * time.Second},
		{Title: "Chapter Two", Start: 120 * time.Second, End: 240 * time.Second},
	}
	if got := MergeOpeningCredits(specs, 60*time.Second); len(got) != 2 {
		t.Fatalf("expected no merge, got %+v", got)
	}
	if got := MergeOpeningCredits(specs, 0); len(got) != 2 {
		t.Fatalf("zero threshold must disable merging, got %+v", got)
	}
}

func TestMergeOpeningCreditsIgnoresOffsetFirstChapter(t *testing.T) {
	specs := []chapters.Spec{
		{Title: "Chapter One", Start: 10 * time.Second, End: 40 * time.Second},
		{Title: "Chapter Two", Start: 40 * time.Second, End: 240 * time.Second},
	}
	if got := MergeOpeningCredits(specs, 60*time.Second); len(got) != 2 {
		t.Fatalf("merge should only apply to a leading segment at zero, got %+v", got)
	}
}
