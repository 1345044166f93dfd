package services

import (
	"fmt"
	"math"
)

// gradeBands is the single canonical grade table for the whole program.
// Bands are ordered high to low and non-overlapping; every grade shown
// anywhere must come from ComputeGrade so the table exists exactly once.
var gradeBands = []struct {
	minPercent int
	grade      string
}{
	{95, "A+"},
	{90, "A"},
	{85, "A-"},
	{80, "B+"},
	{75, "B"},
	{70, "B-"},
	{65, "C+"},
	{60, "C"},
	{55, "C-"},
	{50, "D"},
}

// ComputeGrade converts a raw test score into a letter grade. A total of
// zero or less is a caller error, never a silent default.
func ComputeGrade(score, total int) (string, error) {
	if total <= 0 {
		return "", fmt.Errorf("%w: total questions must be positive, got %d", ErrInvalidInput, total)
	}
	return GradeFromPercent(Percentage(score, total)), nil
}

// Percentage returns round(100*score/total). Callers must validate total.
func Percentage(score, total int) int {
	return int(math.Round(100 * float64(score) / float64(total)))
}

// GradeFromPercent applies the canonical band table to a 0-100 percentage.
func GradeFromPercent(percent int) string {
	for _, band := range gradeBands {
		if percent >= band.minPercent {
			return band.grade
		}
	}
	return "F"
}
