package services

import (
	"errors"
	"testing"
	"time"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"

	"gorm.io/gorm"
)

func seedCertificate(t *testing.T, db *gorm.DB, p models.Participant, status models.CertificateStatus) models.Certificate {
	t.Helper()
	at := time.Now()
	sub := models.TestSubmission{
		ParticipantID: p.ID, TestType: models.AssessmentPostTest,
		Score: 27, TotalQuestions: 30, SubmittedAt: &at,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}
	cert := models.Certificate{
		TestSubmissionID: sub.ID,
		ParticipantID:    p.ID,
		TestType:         sub.TestType,
		Score:            sub.Score,
		TotalQuestions:   sub.TotalQuestions,
		Grade:            "A",
		Status:           status,
	}
	if status != models.CertificatePending {
		now := time.Now()
		cert.IssuedAt = &now
		cert.SerialNumber = "test-serial"
	}
	if err := db.Create(&cert).Error; err != nil {
		t.Fatalf("seed certificate: %v", err)
	}
	return cert
}

func TestSyncCreatesPendingCertificates(t *testing.T) {
	db := newTestDB(t)
	p := seedParticipant(t, db, "Aminah Binti Ali")
	svc := NewCertificateService(db)

	early := time.Now().Add(-48 * time.Hour)
	late := time.Now().Add(-1 * time.Hour)
	for _, sub := range []models.TestSubmission{
		{ParticipantID: p.ID, TestType: models.AssessmentPostTest, Score: 10, TotalQuestions: 30, SubmittedAt: &early},
		{ParticipantID: p.ID, TestType: models.AssessmentPostTest, Score: 29, TotalQuestions: 30, SubmittedAt: &late},
		{ParticipantID: p.ID, TestType: models.AssessmentPostTest, Score: 5, TotalQuestions: 30}, // never handed in
	} {
		if err := db.Create(&sub).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	created, err := svc.Sync(models.AssessmentPostTest)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if created != 1 {
		t.Fatalf("created=%d, want 1 (latest sitting only)", created)
	}

	certs, err := svc.List(models.AssessmentPostTest)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(certs) != 1 {
		t.Fatalf("got %d certificates", len(certs))
	}
	cert := certs[0]
	if cert.Status != models.CertificatePending {
		t.Fatalf("status=%s, want PENDING", cert.Status)
	}
	if cert.Score != 29 || cert.Grade != "A+" {
		t.Fatalf("score=%d grade=%s, want 29 A+", cert.Score, cert.Grade)
	}

	// Re-running creates nothing new.
	created, err = svc.Sync(models.AssessmentPostTest)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if created != 0 {
		t.Fatalf("second Sync created %d", created)
	}
}

func TestSyncRejectsChecklistType(t *testing.T) {
	db := newTestDB(t)
	svc := NewCertificateService(db)
	if _, err := svc.Sync(models.AssessmentOneManCPR); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err=%v, want ErrInvalidInput", err)
	}
}

func TestIssueLifecycle(t *testing.T) {
	db := newTestDB(t)
	p := seedParticipant(t, db, "Benedict Wong")
	cert := seedCertificate(t, db, p, models.CertificatePending)
	svc := NewCertificateService(db)

	issued, err := svc.Issue(cert.ID, 7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.Status != models.CertificateIssued {
		t.Fatalf("status=%s, want ISSUED", issued.Status)
	}
	if issued.IssuedAt == nil || issued.SerialNumber == "" {
		t.Fatalf("issue did not set issued_at/serial: %+v", issued)
	}

	// Issuing again is a state error, not a silent no-op.
	if _, err := svc.Issue(cert.ID, 7); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("second Issue err=%v, want ErrInvalidInput", err)
	}

	revoked, err := svc.Revoke(cert.ID, 7)
	if err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if revoked.Status != models.CertificateRevoked {
		t.Fatalf("status=%s, want REVOKED", revoked.Status)
	}
	// Revocation must not collapse into "never issued".
	if revoked.IssuedAt == nil {
		t.Fatalf("revoke erased issued_at")
	}

	// Reissue after revocation keeps the original serial.
	reissued, err := svc.Issue(cert.ID, 7)
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}
	if reissued.SerialNumber != issued.SerialNumber {
		t.Fatalf("reissue changed serial %q -> %q", issued.SerialNumber, reissued.SerialNumber)
	}
}

func TestRevokeRequiresIssued(t *testing.T) {
	db := newTestDB(t)
	p := seedParticipant(t, db, "Chong Mei Ling")
	cert := seedCertificate(t, db, p, models.CertificatePending)
	svc := NewCertificateService(db)

	if _, err := svc.Revoke(cert.ID, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err=%v, want ErrInvalidInput", err)
	}
}

func TestTransitionUnknownCertificate(t *testing.T) {
	db := newTestDB(t)
	svc := NewCertificateService(db)
	if _, err := svc.Issue(12345, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestApproveLogsDistinctAction(t *testing.T) {
	db := newTestDB(t)
	p := seedParticipant(t, db, "Aminah Binti Ali")
	cert := seedCertificate(t, db, p, models.CertificatePending)
	svc := NewCertificateService(db)

	if _, err := svc.Approve(cert.ID, 3); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := svc.Revoke(cert.ID, 3); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	entries, err := svc.Transitions(cert.ID)
	if err != nil {
		t.Fatalf("Transitions: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d transitions, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Action != models.TransitionActionRevoke || entries[1].Action != models.TransitionActionApprove {
		t.Fatalf("transition order wrong: %s, %s", entries[0].Action, entries[1].Action)
	}
	if entries[1].FromStatus != models.CertificatePending || entries[1].ToStatus != models.CertificateIssued {
		t.Fatalf("approve logged %s -> %s", entries[1].FromStatus, entries[1].ToStatus)
	}
	if entries[0].StaffID != 3 {
		t.Fatalf("staff id not recorded: %+v", entries[0])
	}
}

func TestBulkIssuePartialFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewCertificateService(db)

	var ids []uint
	for i := 0; i < 4; i++ {
		p := seedParticipant(t, db, "Participant")
		cert := seedCertificate(t, db, p, models.CertificatePending)
		ids = append(ids, cert.ID)
	}
	// Unknown id in the middle must not abort the rest.
	ids = []uint{ids[0], ids[1], 99999, ids[2], ids[3]}

	result := svc.BulkIssue(ids, 1)
	if len(result.Succeeded) != 4 {
		t.Fatalf("succeeded=%v, want 4 ids", result.Succeeded)
	}
	if len(result.Failed) != 1 || result.Failed[0].CertificateID != 99999 {
		t.Fatalf("failed=%v, want one NotFound for 99999", result.Failed)
	}

	// Earlier successes stand: every succeeded id is independently ISSUED.
	for _, id := range result.Succeeded {
		var cert models.Certificate
		if err := db.First(&cert, id).Error; err != nil {
			t.Fatalf("load %d: %v", id, err)
		}
		if cert.Status != models.CertificateIssued {
			t.Fatalf("certificate %d status=%s, want ISSUED", id, cert.Status)
		}
	}
}

func TestBulkPreservesCallerOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewCertificateService(db)

	var ids []uint
	for i := 0; i < 3; i++ {
		p := seedParticipant(t, db, "Participant")
		cert := seedCertificate(t, db, p, models.CertificatePending)
		ids = append(ids, cert.ID)
	}
	reversed := []uint{ids[2], ids[1], ids[0]}

	result := svc.BulkIssue(reversed, 1)
	for i, id := range reversed {
		if result.Succeeded[i] != id {
			t.Fatalf("succeeded order %v, want %v", result.Succeeded, reversed)
		}
	}
}

func TestInFlightGuardRejectsOverlap(t *testing.T) {
	db := newTestDB(t)
	p := seedParticipant(t, db, "Benedict Wong")
	cert := seedCertificate(t, db, p, models.CertificateIssued)
	svc := NewCertificateService(db)

	// First caller holds the in-flight mark; an overlapping revoke for
	// the same id must be rejected, not double-applied.
	if err := svc.begin(cert.ID); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.Revoke(cert.ID, 1); !errors.Is(err, ErrConcurrentOperation) {
		t.Fatalf("err=%v, want ErrConcurrentOperation", err)
	}
	svc.end(cert.ID)

	// After the first caller finishes, the retry goes through.
	if _, err := svc.Revoke(cert.ID, 1); err != nil {
		t.Fatalf("retry after release: %v", err)
	}
}

func TestInFlightGuardIsPerID(t *testing.T) {
	db := newTestDB(t)
	pa := seedParticipant(t, db, "A")
	pb := seedParticipant(t, db, "B")
	certA := seedCertificate(t, db, pa, models.CertificatePending)
	certB := seedCertificate(t, db, pb, models.CertificatePending)
	svc := NewCertificateService(db)

	if err := svc.begin(certA.ID); err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer svc.end(certA.ID)

	// A different id is unaffected by A being in flight.
	if _, err := svc.Issue(certB.ID, 1); err != nil {
		t.Fatalf("Issue(other id): %v", err)
	}
}

func TestCertificateData(t *testing.T) {
	db := newTestDB(t)
	p := seedParticipant(t, db, "Aminah Binti Ali")
	cert := seedCertificate(t, db, p, models.CertificatePending)
	svc := NewCertificateService(db)

	// Pending certificates are not downloadable.
	if _, err := svc.Data(cert.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Data on pending err=%v, want ErrInvalidInput", err)
	}

	if _, err := svc.Issue(cert.ID, 1); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	data, err := svc.Data(cert.ID)
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if data.Name != "Aminah Binti Ali" || data.Grade != "A" || data.Percentage != 90 {
		t.Fatalf("render data wrong: %+v", data)
	}
	if data.SerialNumber == "" || data.IssuedAt == nil {
		t.Fatalf("render data missing issue fields: %+v", data)
	}

	// Each fetch counts a download.
	if _, err := svc.Data(cert.ID); err != nil {
		t.Fatalf("second Data: %v", err)
	}
	var reloaded models.Certificate
	if err := db.First(&reloaded, cert.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.DownloadCount != 2 {
		t.Fatalf("download_count=%d, want 2", reloaded.DownloadCount)
	}
	if reloaded.LastDownloadedAt == nil {
		t.Fatalf("last_downloaded_at not set")
	}
}
