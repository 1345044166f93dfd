package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"

	"gorm.io/gorm"
)

// AssessmentService records raw submissions. It never derives statuses;
// that is the aggregation pass's job, so recording stays write-only.
type AssessmentService struct {
	db *gorm.DB
}

func NewAssessmentService(db *gorm.DB) *AssessmentService {
	return &AssessmentService{db: db}
}

type TestSubmissionInput struct {
	ParticipantID  uint       `json:"participant_id"`
	TestType       string     `json:"test_type"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	SubmittedAt    *time.Time `json:"submitted_at"`
}

// RecordTest stores one written-test sitting. A sitting may be recorded
// before it is handed in (no SubmittedAt); it will aggregate as INCOMPLETE
// until a submitted retake supersedes it.
func (s *AssessmentService) RecordTest(in TestSubmissionInput) (*models.TestSubmission, error) {
	testType := models.AssessmentType(in.TestType)
	if !testType.IsTheory() {
		return nil, fmt.Errorf("%w: %q is not a theory test type", ErrInvalidInput, in.TestType)
	}
	if in.Score < 0 {
		return nil, fmt.Errorf("%w: score must not be negative", ErrInvalidInput)
	}
	if in.SubmittedAt != nil && in.TotalQuestions <= 0 {
		return nil, fmt.Errorf("%w: submitted test needs a positive total", ErrInvalidInput)
	}
	if in.TotalQuestions > 0 && in.Score > in.TotalQuestions {
		return nil, fmt.Errorf("%w: score exceeds total questions", ErrInvalidInput)
	}
	if err := s.checkParticipant(in.ParticipantID); err != nil {
		return nil, err
	}

	sub := models.TestSubmission{
		ParticipantID:  in.ParticipantID,
		TestType:       testType,
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
		SubmittedAt:    in.SubmittedAt,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return &sub, nil
}

type ChecklistSubmissionInput struct {
	ParticipantID     uint       `json:"participant_id"`
	ChecklistType     string     `json:"checklist_type"`
	CompletionPercent int        `json:"completion_percent"`
	AirwayDone        bool       `json:"airway_done"`
	BreathingDone     bool       `json:"breathing_done"`
	CirculationDone   bool       `json:"circulation_done"`
	SubmittedAt       *time.Time `json:"submitted_at"`
}

// RecordChecklist stores one skill-checklist sitting.
func (s *AssessmentService) RecordChecklist(in ChecklistSubmissionInput) (*models.ChecklistSubmission, error) {
	checklistType := models.AssessmentType(in.ChecklistType)
	if !checklistType.Valid() || checklistType.IsTheory() {
		return nil, fmt.Errorf("%w: %q is not a checklist type", ErrInvalidInput, in.ChecklistType)
	}
	if in.CompletionPercent < 0 || in.CompletionPercent > 100 {
		return nil, fmt.Errorf("%w: completion percent must be 0-100", ErrInvalidInput)
	}
	if err := s.checkParticipant(in.ParticipantID); err != nil {
		return nil, err
	}

	sub := models.ChecklistSubmission{
		ParticipantID:     in.ParticipantID,
		ChecklistType:     checklistType,
		CompletionPercent: in.CompletionPercent,
		AirwayDone:        in.AirwayDone,
		BreathingDone:     in.BreathingDone,
		CirculationDone:   in.CirculationDone,
		SubmittedAt:       in.SubmittedAt,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return &sub, nil
}

func (s *AssessmentService) checkParticipant(id uint) error {
	var participant models.Participant
	if err := s.db.First(&participant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: participant %d", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}
