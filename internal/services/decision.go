package services

import (
	"fmt"
	"strings"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"
)

// RemedialStatus says whether a participant may retake only the practical
// checklists without resitting theory.
type RemedialStatus string

const (
	RemedialAllowed    RemedialStatus = "ALLOWED"
	RemedialNotAllowed RemedialStatus = "NOT_ALLOWED"
)

// CertifiedStatus is the overall certification outcome.
type CertifiedStatus string

const (
	Certified    CertifiedStatus = "CERTIFIED"
	NotCertified CertifiedStatus = "NOT_CERTIFIED"
)

// RemedialDecision carries the eligibility outcome plus a staff-readable reason.
type RemedialDecision struct {
	Status RemedialStatus `json:"status"`
	Reason string         `json:"reason"`
}

// CertifiedDecision carries the certification outcome plus a staff-readable reason.
type CertifiedDecision struct {
	Status CertifiedStatus `json:"status"`
	Reason string          `json:"reason"`
}

// Decide derives the certification and remedial decisions from the seven
// normalized slots. Pure: the same slots always produce the same decisions.
//
// Certified requires every slot PASS. Remedial retraining is for
// participants who cleared both theory tests but still owe practical
// checklists; anyone with an untaken assessment must complete the program
// first, and a failed theory test means a full resit.
func Decide(slots []AssessmentSlot) (RemedialDecision, CertifiedDecision) {
	byType := make(map[models.AssessmentType]models.SlotStatus, len(slots))
	var failing []string
	for _, slot := range slots {
		byType[slot.Type] = slot.Status
		if slot.Status != models.StatusPass {
			failing = append(failing, fmt.Sprintf("%s: %s", slot.Type, slot.Status))
		}
	}

	var certified CertifiedDecision
	if len(failing) == 0 {
		certified = CertifiedDecision{Status: Certified, Reason: "all assessments passed"}
	} else {
		certified = CertifiedDecision{Status: NotCertified, Reason: strings.Join(failing, "; ")}
	}

	theoryPassed := byType[models.AssessmentPreTest] == models.StatusPass &&
		byType[models.AssessmentPostTest] == models.StatusPass

	anyNotTaken := false
	for _, status := range byType {
		if status == models.StatusNotTaken {
			anyNotTaken = true
			break
		}
	}

	var remedial RemedialDecision
	switch {
	case certified.Status == Certified:
		remedial = RemedialDecision{Status: RemedialNotAllowed, Reason: "already certified"}
	case !theoryPassed:
		remedial = RemedialDecision{Status: RemedialNotAllowed, Reason: "theory not passed"}
	case anyNotTaken:
		remedial = RemedialDecision{Status: RemedialNotAllowed, Reason: "assessment not yet taken"}
	default:
		remedial = RemedialDecision{Status: RemedialAllowed, Reason: "theory passed, practical checklists outstanding"}
	}

	return remedial, certified
}
