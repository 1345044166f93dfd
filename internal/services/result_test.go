package services

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"
)

func TestAggregateMaterializesAllSevenSlots(t *testing.T) {
	db := newTestDB(t)
	p := seedParticipant(t, db, "Aminah Binti Ali")
	svc := NewResultService(db)

	// No submissions at all: still a complete result.
	result, err := svc.Aggregate(p.ID)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(result.Slots) != 7 {
		t.Fatalf("got %d slots, want 7", len(result.Slots))
	}
	seen := map[models.AssessmentType]bool{}
	for _, slot := range result.Slots {
		if slot.Status != models.StatusNotTaken {
			t.Fatalf("slot %s status=%s, want NOT_TAKEN", slot.Type, slot.Status)
		}
		if seen[slot.Type] {
			t.Fatalf("slot %s appears twice", slot.Type)
		}
		seen[slot.Type] = true
	}
	if result.Remedial.Reason != "assessment not yet taken" {
		t.Fatalf("remedial reason=%q", result.Remedial.Reason)
	}
}

func TestAggregateUnknownParticipant(t *testing.T) {
	db := newTestDB(t)
	svc := NewResultService(db)
	if _, err := svc.Aggregate(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestAggregateLatestRetakeWins(t *testing.T) {
	db := newTestDB(t)
	p := seedParticipant(t, db, "Benedict Wong")
	svc := NewResultService(db)

	early := time.Now().Add(-48 * time.Hour)
	late := time.Now().Add(-1 * time.Hour)

	// A failed first sitting superseded by a passing retake.
	for _, sub := range []models.TestSubmission{
		{ParticipantID: p.ID, TestType: models.AssessmentPostTest, Score: 10, TotalQuestions: 30, SubmittedAt: &early},
		{ParticipantID: p.ID, TestType: models.AssessmentPostTest, Score: 28, TotalQuestions: 30, SubmittedAt: &late},
	} {
		if err := db.Create(&sub).Error; err != nil {
			t.Fatalf("seed submission: %v", err)
		}
	}

	result, err := svc.Aggregate(p.ID)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	slot := result.Slot(models.AssessmentPostTest)
	if slot.Status != models.StatusPass {
		t.Fatalf("post_test status=%s, want PASS (retake should supersede)", slot.Status)
	}
	if slot.Score == nil || *slot.Score != 28 {
		t.Fatalf("post_test score=%v, want 28", slot.Score)
	}
}

func TestAggregateSubmittedSittingBeatsUnsubmitted(t *testing.T) {
	db := newTestDB(t)
	p := seedParticipant(t, db, "Chong Mei Ling")
	svc := NewResultService(db)

	at := time.Now().Add(-2 * time.Hour)
	for _, sub := range []models.TestSubmission{
		{ParticipantID: p.ID, TestType: models.AssessmentPreTest, Score: 25, TotalQuestions: 30, SubmittedAt: &at},
		{ParticipantID: p.ID, TestType: models.AssessmentPreTest, Score: 3, TotalQuestions: 30},
	} {
		if err := db.Create(&sub).Error; err != nil {
			t.Fatalf("seed submission: %v", err)
		}
	}

	result, err := svc.Aggregate(p.ID)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got := result.Slot(models.AssessmentPreTest).Status; got != models.StatusPass {
		t.Fatalf("pre_test status=%s, want PASS", got)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	db := newTestDB(t)
	p := seedParticipant(t, db, "Aminah Binti Ali")
	svc := NewResultService(db)

	at := time.Now().Truncate(time.Second)
	subs := []models.TestSubmission{
		{ParticipantID: p.ID, TestType: models.AssessmentPreTest, Score: 27, TotalQuestions: 30, SubmittedAt: &at},
	}
	for _, sub := range subs {
		if err := db.Create(&sub).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	checklist := models.ChecklistSubmission{
		ParticipantID: p.ID, ChecklistType: models.AssessmentOneManCPR,
		CompletionPercent: 90, AirwayDone: true, BreathingDone: true, CirculationDone: true,
		SubmittedAt: &at,
	}
	if err := db.Create(&checklist).Error; err != nil {
		t.Fatalf("seed checklist: %v", err)
	}

	first, err := svc.Aggregate(p.ID)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	second, err := svc.Aggregate(p.ID)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated aggregation differs:\n%+v\n%+v", first, second)
	}
}

func TestAggregateAllOuterJoins(t *testing.T) {
	db := newTestDB(t)
	withSubs := seedParticipant(t, db, "Aminah Binti Ali")
	bare := seedParticipant(t, db, "Benedict Wong")
	svc := NewResultService(db)

	at := time.Now()
	sub := models.TestSubmission{ParticipantID: withSubs.ID, TestType: models.AssessmentPreTest, Score: 25, TotalQuestions: 30, SubmittedAt: &at}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	results, err := svc.AggregateAll()
	if err != nil {
		t.Fatalf("AggregateAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if len(r.Slots) != 7 {
			t.Fatalf("participant %d has %d slots", r.ParticipantID, len(r.Slots))
		}
	}
	// The participant with no submissions still shows up, fully NOT_TAKEN.
	for _, r := range results {
		if r.ParticipantID == bare.ID {
			for _, slot := range r.Slots {
				if slot.Status != models.StatusNotTaken {
					t.Fatalf("bare participant slot %s=%s", slot.Type, slot.Status)
				}
			}
		}
	}
}
