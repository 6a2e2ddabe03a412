package lead

import (
	"testing"
)

func TestClassify_Thresholds(t *testing.T) {
	tests := []struct {
		score    int
		expected Category
	}{
		{100, CategoryHot},
		{80, CategoryHot},
		{79, CategoryWarm},
		{60, CategoryWarm},
		{59, CategoryMedium},
		{40, CategoryMedium},
		{39, CategoryCool},
		{20, CategoryCool},
		{19, CategoryCold},
		{0, CategoryCold},
	}

	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.expected {
			t.Errorf("Classify(%d) = %s, expected %s", tt.score, got, tt.expected)
		}
	}
}

func TestClassify_PartitionsFullRange(t *testing.T) {
	// Every score in [0,100] must land in exactly one tier, and the tier's
	// bounds must agree with the classification.
	for score := 0; score <= 100; score++ {
		matches := 0
		for _, info := range Categories() {
			if score >= info.MinScore && score <= info.MaxScore {
				matches++
				if Classify(score) != info.Category {
					t.Errorf("Classify(%d) = %s, but score falls in range of %s", score, Classify(score), info.Category)
				}
			}
		}
		if matches != 1 {
			t.Errorf("Score %d matched %d category ranges, expected exactly 1", score, matches)
		}
	}
}

func TestClassify_ClampsOutOfRange(t *testing.T) {
	if got := Classify(-5); got != CategoryCold {
		t.Errorf("Classify(-5) = %s, expected %s", got, CategoryCold)
	}
	if got := Classify(150); got != CategoryHot {
		t.Errorf("Classify(150) = %s, expected %s", got, CategoryHot)
	}
}

func TestCategories_RankOrdering(t *testing.T) {
	cats := Categories()
	if len(cats) != 5 {
		t.Fatalf("Expected 5 categories, got %d", len(cats))
	}
	if cats[0].Category != CategoryHot {
		t.Errorf("Best opportunity should rank first, got %s", cats[0].Category)
	}
	for i, info := range cats {
		if info.Rank != i {
			t.Errorf("Category %s has rank %d at position %d", info.Category, info.Rank, i)
		}
	}
}

func TestCategories_RangeText(t *testing.T) {
	// The literal range keys consumed by the stats aggregation.
	expected := map[Category]string{
		CategoryHot:    "80-100 (Hot)",
		CategoryWarm:   "60-79 (Warm)",
		CategoryMedium: "40-59 (Medium)",
		CategoryCool:   "20-39 (Cool)",
		CategoryCold:   "0-19 (Cold)",
	}

	for _, info := range Categories() {
		if info.RangeText != expected[info.Category] {
			t.Errorf("Category %s range text = %q, expected %q", info.Category, info.RangeText, expected[info.Category])
		}
	}
}

func TestCategory_Label(t *testing.T) {
	if got := CategoryHot.Label(); got != "Alta Oportunidad" {
		t.Errorf("Unexpected label for hot category: %q", got)
	}
	if got := Category("bogus").Label(); got != "bogus" {
		t.Errorf("Unknown category should fall back to identifier, got %q", got)
	}
}

func TestClassifyInfo(t *testing.T) {
	info := ClassifyInfo(85)
	if info.Category != CategoryHot {
		t.Errorf("ClassifyInfo(85).Category = %s, expected %s", info.Category, CategoryHot)
	}
	if info.Label != "Alta Oportunidad" {
		t.Errorf("ClassifyInfo(85).Label = %q", info.Label)
	}
}
