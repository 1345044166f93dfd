package models

import "time"

// AssessmentType enumerates the seven assessments every participant goes
// through: two written theory tests and five hands-on skill checklists.
// This set is fixed by the program, not configuration.
type AssessmentType string

const (
	AssessmentPreTest       AssessmentType = "pre_test"
	AssessmentPostTest      AssessmentType = "post_test"
	AssessmentOneManCPR     AssessmentType = "one_man_cpr"
	AssessmentTwoManCPR     AssessmentType = "two_man_cpr"
	AssessmentInfantCPR     AssessmentType = "infant_cpr"
	AssessmentInfantChoking AssessmentType = "infant_choking"
	AssessmentAdultChoking  AssessmentType = "adult_choking"
)

// AssessmentTypes returns all seven types in canonical order.
func AssessmentTypes() []AssessmentType {
	return []AssessmentType{
		AssessmentPreTest,
		AssessmentPostTest,
		AssessmentOneManCPR,
		AssessmentTwoManCPR,
		AssessmentInfantCPR,
		AssessmentInfantChoking,
		AssessmentAdultChoking,
	}
}

func (t AssessmentType) Valid() bool {
	for _, known := range AssessmentTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// IsTheory reports whether the type is a written test rather than a checklist.
func (t AssessmentType) IsTheory() bool {
	return t == AssessmentPreTest || t == AssessmentPostTest
}

// SlotStatus is the canonical per-assessment outcome.
type SlotStatus string

const (
	StatusPass       SlotStatus = "PASS"
	StatusFail       SlotStatus = "FAIL"
	StatusIncomplete SlotStatus = "INCOMPLETE"
	StatusNotTaken   SlotStatus = "NOT_TAKEN"
)

func (s SlotStatus) Valid() bool {
	switch s {
	case StatusPass, StatusFail, StatusIncomplete, StatusNotTaken:
		return true
	}
	return false
}

// TestSubmission is one sitting of a written theory test. Retakes are
// separate rows; readers pick the latest SubmittedAt.
type TestSubmission struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ParticipantID  uint           `gorm:"not null;index:idx_test_participant_type" json:"participant_id"`
	TestType       AssessmentType `gorm:"size:20;not null;index:idx_test_participant_type" json:"test_type"`
	Score          int            `gorm:"not null;default:0" json:"score"`
	TotalQuestions int            `gorm:"not null;default:0" json:"total_questions"`
	SubmittedAt    *time.Time     `json:"submitted_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ChecklistSubmission is one sitting of a hands-on skill checklist. The
// three compulsory components (airway, breathing, circulation) decide the
// pass outcome; CompletionPercent covers optional items too and is
// informational only.
type ChecklistSubmission struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ParticipantID     uint           `gorm:"not null;index:idx_checklist_participant_type" json:"participant_id"`
	ChecklistType     AssessmentType `gorm:"size:20;not null;index:idx_checklist_participant_type" json:"checklist_type"`
	CompletionPercent int            `gorm:"not null;default:0" json:"completion_percent"`
	AirwayDone        bool           `gorm:"not null;default:false" json:"airway_done"`
	BreathingDone     bool           `gorm:"not null;default:false" json:"breathing_done"`
	CirculationDone   bool           `gorm:"not null;default:false" json:"circulation_done"`
	SubmittedAt       *time.Time     `json:"submitted_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}
