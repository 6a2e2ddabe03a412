package lead

import "fmt"

// Category is one of the five opportunity tiers. The table below is the
// single source of truth for thresholds, labels and the range keys used by
// statistics; nothing else in the codebase restates them.
type Category string

const (
	CategoryHot    Category = "hot"    // high opportunity
	CategoryWarm   Category = "warm"   // good opportunity
	CategoryMedium Category = "medium" // medium opportunity
	CategoryCool   Category = "cool"   // low opportunity
	CategoryCold   Category = "cold"   // fully equipped
)

// CategoryInfo describes one tier: inclusive score bounds, display label,
// the literal range key used by score-range aggregation, and sort rank
// (lower rank = better opportunity).
type CategoryInfo struct {
	Category  Category
	MinScore  int
	MaxScore  int
	Label     string
	RangeText string
	Rank      int
}

// categoryTable is ordered best opportunity first.
var categoryTable = []CategoryInfo{
	{CategoryHot, 80, 100, "Alta Oportunidad", "80-100 (Hot)", 0},
	{CategoryWarm, 60, 79, "Buena Oportunidad", "60-79 (Warm)", 1},
	{CategoryMedium, 40, 59, "Oportunidad Media", "40-59 (Medium)", 2},
	{CategoryCool, 20, 39, "Oportunidad Baja", "20-39 (Cool)", 3},
	{CategoryCold, 0, 19, "Ya tienen casi todo", "0-19 (Cold)", 4},
}

// Classify maps a score to its tier. Total over all ints: values outside
// [0,100] are clamped first, so the five ranges partition every input.
func Classify(score int) Category {
	if score < 0 {
		score = 0
	}
	if score > maxScore {
		score = maxScore
	}
	for _, c := range categoryTable {
		if score >= c.MinScore {
			return c.Category
		}
	}
	return CategoryCold
}

// ClassifyInfo returns the full tier descriptor for a score.
func ClassifyInfo(score int) CategoryInfo {
	return mustInfo(Classify(score))
}

// Categories returns the tier table ordered best opportunity first.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryTable))
	copy(out, categoryTable)
	return out
}

// Info returns the descriptor for a known category.
func (c Category) Info() (CategoryInfo, error) {
	for _, info := range categoryTable {
		if info.Category == c {
			return info, nil
		}
	}
	return CategoryInfo{}, fmt.Errorf("unknown category: %s", c)
}

// Label returns the display label, or the raw identifier if unknown.
func (c Category) Label() string {
	info, err := c.Info()
	if err != nil {
		return string(c)
	}
	return info.Label
}

func mustInfo(c Category) CategoryInfo {
	info, err := c.Info()
	if err != nil {
		panic(err)
	}
	return info
}
