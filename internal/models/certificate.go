package models

import "time"

// CertificateStatus is the certificate lifecycle state. It is persisted
// explicitly so that a revoked certificate stays distinguishable from one
// that was never issued.
type CertificateStatus string

const (
	CertificatePending CertificateStatus = "PENDING"
	CertificateIssued  CertificateStatus = "ISSUED"
	CertificateRevoked CertificateStatus = "REVOKED"
)

func (s CertificateStatus) Valid() bool {
	switch s {
	case CertificatePending, CertificateIssued, CertificateRevoked:
		return true
	}
	return false
}

// Certificate is the printable-result record for one theory test submission.
// One certificate exists per (participant, test type), keyed by the
// underlying submission.
type Certificate struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	TestSubmissionID uint              `gorm:"not null;uniqueIndex" json:"test_submission_id"`
	ParticipantID    uint              `gorm:"not null;index" json:"participant_id"`
	Participant      Participant       `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE" json:"-"`
	TestType         AssessmentType    `gorm:"size:20;not null" json:"test_type"`
	Score            int               `gorm:"not null" json:"score"`
	TotalQuestions   int               `gorm:"not null" json:"total_questions"`
	Grade            string            `gorm:"size:2;not null" json:"grade"`
	Status           CertificateStatus `gorm:"size:10;not null;default:'PENDING'" json:"status"`
	SerialNumber     string            `gorm:"size:36;index" json:"serial_number,omitempty"`
	IssuedAt         *time.Time        `json:"issued_at,omitempty"`
	DownloadCount    int               `gorm:"not null;default:0" json:"download_count"`
	LastDownloadedAt *time.Time        `json:"last_downloaded_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Audit actions recorded in the transition log.
const (
	TransitionActionIssue   = "issue"
	TransitionActionApprove = "approve"
	TransitionActionRevoke  = "revoke"
)

// CertificateTransition is one row of the append-only lifecycle audit log.
type CertificateTransition struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	CertificateID uint              `gorm:"not null;index" json:"certificate_id"`
	Action        string            `gorm:"size:10;not null" json:"action"`
	FromStatus    CertificateStatus `gorm:"size:10;not null" json:"from_status"`
	ToStatus      CertificateStatus `gorm:"size:10;not null" json:"to_status"`
	StaffID       uint              `gorm:"not null;default:0" json:"staff_id"`
	CreatedAt     time.Time         `json:"created_at"`
}
