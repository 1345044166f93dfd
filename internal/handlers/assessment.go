package handlers

import (
	"net/http"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/services"

	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	assessmentService *services.AssessmentService
}

func NewAssessmentHandler(assessmentService *services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// RecordTest godoc
// @Summary      Record a theory test submission
// @Description  Stores one sitting of a pre/post test. Retakes are new rows; the latest submission wins at aggregation.
// @Tags         assessments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.TestSubmissionInput true "Submission data"
// @Success      201 {object} TestSubmission
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/assessments/tests [post]
func (h *AssessmentHandler) RecordTest(c *gin.Context) {
	var req services.TestSubmissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	sub, err := h.assessmentService.RecordTest(req)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// RecordChecklist godoc
// @Summary      Record a skill checklist submission
// @Tags         assessments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.ChecklistSubmissionInput true "Submission data"
// @Success      201 {object} ChecklistSubmission
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/assessments/checklists [post]
func (h *AssessmentHandler) RecordChecklist(c *gin.Context) {
	var req services.ChecklistSubmissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	sub, err := h.assessmentService.RecordChecklist(req)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sub)
}
