package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateData is the flat record handed to the certificate renderer.
// The backend never builds markup or files; downstream consumers do.
type CertificateData struct {
	CertificateID  uint                  `json:"certificate_id"`
	SerialNumber   string                `json:"serial_number"`
	Name           string                `json:"name"`
	NationalID     string                `json:"national_id,omitempty"`
	JobPosition    string                `json:"job_position,omitempty"`
	TestType       models.AssessmentType `json:"test_type"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"total_questions"`
	Grade          string                `json:"grade"`
	Percentage     int                   `json:"percentage"`
	IssuedAt       *time.Time            `json:"issued_at,omitempty"`
}

// BulkFailure reports one id that could not be transitioned.
type BulkFailure struct {
	CertificateID uint   `json:"certificate_id"`
	Error         string `json:"error"`
}

// BulkResult reports per-item outcomes of a bulk transition. Earlier
// successes stand regardless of later failures.
type BulkResult struct {
	Succeeded []uint        `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// CertificateService owns the PENDING/ISSUED/REVOKED lifecycle. The
// in-flight set rejects a second transition for an id whose first has not
// finished yet, closing the issue-vs-revoke race on a single certificate.
type CertificateService struct {
	db *gorm.DB

	mu       sync.Mutex
	inflight map[uint]struct{}
}

func NewCertificateService(db *gorm.DB) *CertificateService {
	return &CertificateService{
		db:       db,
		inflight: make(map[uint]struct{}),
	}
}

// begin marks an id as transitioning. The caller must end() it.
func (s *CertificateService) begin(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return fmt.Errorf("%w: certificate %d", ErrConcurrentOperation, id)
	}
	s.inflight[id] = struct{}{}
	return nil
}

func (s *CertificateService) end(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
}

// Issue releases a certificate to its participant. PENDING|REVOKED -> ISSUED.
func (s *CertificateService) Issue(id, staffID uint) (*models.Certificate, error) {
	return s.transition(id, staffID, models.TransitionActionIssue)
}

// Approve is the same transition as Issue under a distinct audit verb,
// kept separate so the transition log reads "approved" where staff acted
// on a review queue rather than a reissue request.
func (s *CertificateService) Approve(id, staffID uint) (*models.Certificate, error) {
	return s.transition(id, staffID, models.TransitionActionApprove)
}

// Revoke withdraws an issued certificate. ISSUED -> REVOKED. IssuedAt is
// kept so a revoked certificate never collapses back into "never issued".
func (s *CertificateService) Revoke(id, staffID uint) (*models.Certificate, error) {
	return s.transition(id, staffID, models.TransitionActionRevoke)
}

func (s *CertificateService) transition(id, staffID uint, action string) (*models.Certificate, error) {
	if err := s.begin(id); err != nil {
		return nil, err
	}
	defer s.end(id)
	return s.apply(id, staffID, action)
}

// apply performs one state transition and appends the audit row, both in
// one transaction. Callers hold the in-flight mark for id.
func (s *CertificateService) apply(id, staffID uint, action string) (*models.Certificate, error) {
	var cert models.Certificate
	if err := s.db.First(&cert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: certificate %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	from := cert.Status
	switch action {
	case models.TransitionActionIssue, models.TransitionActionApprove:
		if from == models.CertificateIssued {
			return nil, fmt.Errorf("%w: certificate %d is already issued", ErrInvalidInput, id)
		}
		now := time.Now()
		cert.Status = models.CertificateIssued
		cert.IssuedAt = &now
		if cert.SerialNumber == "" {
			cert.SerialNumber = uuid.NewString()
		}
	case models.TransitionActionRevoke:
		if from != models.CertificateIssued {
			return nil, fmt.Errorf("%w: certificate %d is not issued", ErrInvalidInput, id)
		}
		cert.Status = models.CertificateRevoked
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}

	tx := s.db.Begin()
	if err := tx.Save(&cert).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	entry := models.CertificateTransition{
		CertificateID: cert.ID,
		Action:        action,
		FromStatus:    from,
		ToStatus:      cert.Status,
		StaffID:       staffID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	tx.Commit()

	return &cert, nil
}

// BulkIssue applies Issue to each id sequentially in caller order.
func (s *CertificateService) BulkIssue(ids []uint, staffID uint) BulkResult {
	return s.bulk(ids, staffID, models.TransitionActionIssue)
}

// BulkApprove applies Approve to each id sequentially in caller order.
func (s *CertificateService) BulkApprove(ids []uint, staffID uint) BulkResult {
	return s.bulk(ids, staffID, models.TransitionActionApprove)
}

// BulkRevoke applies Revoke to each id sequentially in caller order.
func (s *CertificateService) BulkRevoke(ids []uint, staffID uint) BulkResult {
	return s.bulk(ids, staffID, models.TransitionActionRevoke)
}

// bulk runs one transition per id, in order, to completion. Items fail
// independently; an earlier success is never rolled back by a later
// failure, so staff can re-run the bulk call with only the failed ids.
func (s *CertificateService) bulk(ids []uint, staffID uint, action string) BulkResult {
	result := BulkResult{Succeeded: []uint{}, Failed: []BulkFailure{}}
	for _, id := range ids {
		if _, err := s.transition(id, staffID, action); err != nil {
			result.Failed = append(result.Failed, BulkFailure{CertificateID: id, Error: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}

// List returns all certificates, optionally narrowed to one test type.
func (s *CertificateService) List(testType models.AssessmentType) ([]models.Certificate, error) {
	query := s.db.Order("id ASC")
	if testType != "" {
		if !testType.IsTheory() {
			return nil, fmt.Errorf("%w: %q is not a certificate test type", ErrInvalidInput, testType)
		}
		query = query.Where("test_type = ?", testType)
	}
	var certs []models.Certificate
	if err := query.Find(&certs).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return certs, nil
}

// Sync materializes a PENDING certificate for every latest submitted
// theory-test sitting that has none yet. Returns how many were created.
// Unsubmitted sittings are not certifiable and are left alone.
func (s *CertificateService) Sync(testType models.AssessmentType) (int, error) {
	if !testType.IsTheory() {
		return 0, fmt.Errorf("%w: %q is not a certificate test type", ErrInvalidInput, testType)
	}

	var subs []models.TestSubmission
	if err := s.db.Where("test_type = ? AND submitted_at IS NOT NULL", testType).Find(&subs).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	// Latest sitting per participant wins; retakes supersede.
	latest := make(map[uint]models.TestSubmission)
	for _, sub := range subs {
		current, ok := latest[sub.ParticipantID]
		if !ok || newer(sub.SubmittedAt, sub.ID, current.SubmittedAt, current.ID) {
			latest[sub.ParticipantID] = sub
		}
	}

	created := 0
	for _, sub := range latest {
		var existing models.Certificate
		err := s.db.Where("test_submission_id = ?", sub.ID).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}

		grade, err := ComputeGrade(sub.Score, sub.TotalQuestions)
		if err != nil {
			return created, fmt.Errorf("submission %d: %w", sub.ID, err)
		}

		cert := models.Certificate{
			TestSubmissionID: sub.ID,
			ParticipantID:    sub.ParticipantID,
			TestType:         sub.TestType,
			Score:            sub.Score,
			TotalQuestions:   sub.TotalQuestions,
			Grade:            grade,
			Status:           models.CertificatePending,
		}
		if err := s.db.Create(&cert).Error; err != nil {
			return created, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		created++
	}
	return created, nil
}

// Data returns the flat render record for an issued certificate and
// counts the download. Only ISSUED certificates are downloadable.
func (s *CertificateService) Data(id uint) (*CertificateData, error) {
	var cert models.Certificate
	if err := s.db.Preload("Participant").First(&cert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: certificate %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if cert.Status != models.CertificateIssued {
		return nil, fmt.Errorf("%w: certificate %d is not issued", ErrInvalidInput, id)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"download_count":     gorm.Expr("download_count + 1"),
		"last_downloaded_at": now,
	}
	if err := s.db.Model(&cert).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return &CertificateData{
		CertificateID:  cert.ID,
		SerialNumber:   cert.SerialNumber,
		Name:           cert.Participant.Name,
		NationalID:     cert.Participant.NationalID,
		JobPosition:    cert.Participant.JobPosition,
		TestType:       cert.TestType,
		Score:          cert.Score,
		TotalQuestions: cert.TotalQuestions,
		Grade:          cert.Grade,
		Percentage:     Percentage(cert.Score, cert.TotalQuestions),
		IssuedAt:       cert.IssuedAt,
	}, nil
}

// Transitions returns the audit trail for one certificate, newest first.
func (s *CertificateService) Transitions(id uint) ([]models.CertificateTransition, error) {
	var cert models.Certificate
	if err := s.db.First(&cert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: certificate %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	var entries []models.CertificateTransition
	if err := s.db.Where("certificate_id = ?", id).Order("id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return entries, nil
}
