package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"

	"gorm.io/gorm"
)

// ComprehensiveResult is the seven-slot composite view of one participant
// plus the derived decisions. It is recomputed on every aggregation pass
// and never persisted, so it cannot go stale against the submissions.
type ComprehensiveResult struct {
	ParticipantID uint              `json:"participant_id"`
	Name          string            `json:"name"`
	NationalID    string            `json:"national_id,omitempty"`
	JobPosition   string            `json:"job_position,omitempty"`
	Category      models.Category   `json:"category,omitempty"`
	Slots         []AssessmentSlot  `json:"slots"`
	Remedial      RemedialDecision  `json:"remedial"`
	Certified     CertifiedDecision `json:"certified"`
}

// Slot returns the slot for one assessment type.
func (r ComprehensiveResult) Slot(t models.AssessmentType) AssessmentSlot {
	for _, slot := range r.Slots {
		if slot.Type == t {
			return slot
		}
	}
	return EmptySlot(t)
}

type ResultService struct {
	db *gorm.DB
}

func NewResultService(db *gorm.DB) *ResultService {
	return &ResultService{db: db}
}

// Aggregate builds the comprehensive result for one participant. For each
// of the seven assessment types the most recent submission wins (retakes
// supersede, never accumulate); a type with no submission yields a
// NOT_TAKEN slot, so the result always has exactly seven slots.
func (s *ResultService) Aggregate(participantID uint) (*ComprehensiveResult, error) {
	var participant models.Participant
	if err := s.db.First(&participant, participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: participant %d", ErrNotFound, participantID)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	var tests []models.TestSubmission
	if err := s.db.Where("participant_id = ?", participantID).Find(&tests).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	var checklists []models.ChecklistSubmission
	if err := s.db.Where("participant_id = ?", participantID).Find(&checklists).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	result := assemble(participant, tests, checklists)
	return &result, nil
}

// AggregateAll outer-joins every known participant with every submission.
// A participant who never submitted anything still yields a complete
// result with seven NOT_TAKEN slots. Ordered by participant id.
func (s *ResultService) AggregateAll() ([]ComprehensiveResult, error) {
	var participants []models.Participant
	if err := s.db.Order("id ASC").Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	var tests []models.TestSubmission
	if err := s.db.Find(&tests).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	var checklists []models.ChecklistSubmission
	if err := s.db.Find(&checklists).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	testsByParticipant := make(map[uint][]models.TestSubmission)
	for _, sub := range tests {
		testsByParticipant[sub.ParticipantID] = append(testsByParticipant[sub.ParticipantID], sub)
	}
	checklistsByParticipant := make(map[uint][]models.ChecklistSubmission)
	for _, sub := range checklists {
		checklistsByParticipant[sub.ParticipantID] = append(checklistsByParticipant[sub.ParticipantID], sub)
	}

	results := make([]ComprehensiveResult, 0, len(participants))
	for _, p := range participants {
		results = append(results, assemble(p, testsByParticipant[p.ID], checklistsByParticipant[p.ID]))
	}
	return results, nil
}

func assemble(p models.Participant, tests []models.TestSubmission, checklists []models.ChecklistSubmission) ComprehensiveResult {
	latestTests := make(map[models.AssessmentType]models.TestSubmission)
	for _, sub := range tests {
		current, ok := latestTests[sub.TestType]
		if !ok || newer(sub.SubmittedAt, sub.ID, current.SubmittedAt, current.ID) {
			latestTests[sub.TestType] = sub
		}
	}

	latestChecklists := make(map[models.AssessmentType]models.ChecklistSubmission)
	for _, sub := range checklists {
		current, ok := latestChecklists[sub.ChecklistType]
		if !ok || newer(sub.SubmittedAt, sub.ID, current.SubmittedAt, current.ID) {
			latestChecklists[sub.ChecklistType] = sub
		}
	}

	slots := make([]AssessmentSlot, 0, 7)
	for _, t := range models.AssessmentTypes() {
		switch {
		case t.IsTheory():
			if sub, ok := latestTests[t]; ok {
				slots = append(slots, NormalizeTest(sub))
			} else {
				slots = append(slots, EmptySlot(t))
			}
		default:
			if sub, ok := latestChecklists[t]; ok {
				slots = append(slots, NormalizeChecklist(sub))
			} else {
				slots = append(slots, EmptySlot(t))
			}
		}
	}

	remedial, certified := Decide(slots)
	return ComprehensiveResult{
		ParticipantID: p.ID,
		Name:          p.Name,
		NationalID:    p.NationalID,
		JobPosition:   p.JobPosition,
		Category:      p.Category,
		Slots:         slots,
		Remedial:      remedial,
		Certified:     certified,
	}
}

// newer reports whether submission a supersedes submission b. The latest
// submitted_at wins; an unsubmitted sitting never supersedes a submitted
// one; ties fall back to the higher record id.
func newer(aAt *time.Time, aID uint, bAt *time.Time, bID uint) bool {
	switch {
	case aAt != nil && bAt == nil:
		return true
	case aAt == nil && bAt != nil:
		return false
	case aAt != nil && bAt != nil && !aAt.Equal(*bAt):
		return aAt.After(*bAt)
	default:
		return aID > bID
	}
}
