package services

import (
	"time"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"
)

// TheoryPassPercent is the written-test pass mark. Defined once so a
// program-rule change is a one-line edit.
const TheoryPassPercent = 70

// AssessmentSlot is one participant's normalized outcome for one
// assessment type. Every comprehensive result carries exactly seven,
// one per type, materialized even when nothing was submitted.
type AssessmentSlot struct {
	Type              models.AssessmentType `json:"type"`
	Status            models.SlotStatus     `json:"status"`
	Score             *int                  `json:"score,omitempty"`
	TotalQuestions    *int                  `json:"total_questions,omitempty"`
	CompletionPercent *int                  `json:"completion_percent,omitempty"`
	SubmittedAt       *time.Time            `json:"submitted_at,omitempty"`
}

// EmptySlot is the slot for an assessment with no underlying record.
func EmptySlot(t models.AssessmentType) AssessmentSlot {
	return AssessmentSlot{Type: t, Status: models.StatusNotTaken}
}

// NormalizeTest maps one written-test submission to a slot. Total
// function: every input yields exactly one of the four statuses. A sitting
// that was never handed in (no submission timestamp) is INCOMPLETE, not
// FAIL, regardless of how much was answered.
func NormalizeTest(sub models.TestSubmission) AssessmentSlot {
	slot := AssessmentSlot{
		Type:           sub.TestType,
		Score:          intPtr(sub.Score),
		TotalQuestions: intPtr(sub.TotalQuestions),
		SubmittedAt:    sub.SubmittedAt,
	}
	switch {
	case sub.SubmittedAt == nil:
		slot.Status = models.StatusIncomplete
	case sub.TotalQuestions > 0 && Percentage(sub.Score, sub.TotalQuestions) >= TheoryPassPercent:
		slot.Status = models.StatusPass
	default:
		slot.Status = models.StatusFail
	}
	return slot
}

// NormalizeChecklist maps one skill-checklist submission to a slot. The
// pass criterion is structural: all three compulsory components (airway,
// breathing, circulation) must be complete. A checklist can sit at 100%
// on optional items and still fail a compulsory one, so the completion
// percentage never decides the outcome.
func NormalizeChecklist(sub models.ChecklistSubmission) AssessmentSlot {
	slot := AssessmentSlot{
		Type:              sub.ChecklistType,
		CompletionPercent: intPtr(sub.CompletionPercent),
		SubmittedAt:       sub.SubmittedAt,
	}
	switch {
	case sub.SubmittedAt == nil:
		slot.Status = models.StatusIncomplete
	case sub.AirwayDone && sub.BreathingDone && sub.CirculationDone:
		slot.Status = models.StatusPass
	default:
		slot.Status = models.StatusFail
	}
	return slot
}

func intPtr(v int) *int {
	return &v
}
