package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"

	"gorm.io/gorm"
)

type ParticipantService struct {
	db *gorm.DB
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{db: db}
}

type ParticipantInput struct {
	Name        string `json:"name"`
	NationalID  string `json:"national_id"`
	JobPosition string `json:"job_position"`
	Category    string `json:"category"`
}

func (in ParticipantInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Category != "" && !models.Category(in.Category).Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}
	return nil
}

func (s *ParticipantService) List() ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.Order("name ASC").Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return participants, nil
}

func (s *ParticipantService) Get(id uint) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.First(&participant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: participant %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return &participant, nil
}

func (s *ParticipantService) Create(in ParticipantInput) (*models.Participant, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	participant := models.Participant{
		Name:        strings.TrimSpace(in.Name),
		NationalID:  strings.TrimSpace(in.NationalID),
		JobPosition: strings.TrimSpace(in.JobPosition),
		Category:    models.Category(in.Category),
	}
	if err := s.db.Create(&participant).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return &participant, nil
}

func (s *ParticipantService) Update(id uint, in ParticipantInput) (*models.Participant, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	participant, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	participant.Name = strings.TrimSpace(in.Name)
	participant.NationalID = strings.TrimSpace(in.NationalID)
	participant.JobPosition = strings.TrimSpace(in.JobPosition)
	participant.Category = models.Category(in.Category)
	if err := s.db.Save(participant).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return participant, nil
}

func (s *ParticipantService) Delete(id uint) error {
	result := s.db.Delete(&models.Participant{}, id)
	if result.Error != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: participant %d", ErrNotFound, id)
	}
	return nil
}
