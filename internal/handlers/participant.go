package handlers

import (
	"net/http"
	"strconv"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/services"

	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	participantService *services.ParticipantService
}

func NewParticipantHandler(participantService *services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// ListParticipants godoc
// @Summary      List participants
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Participant
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/participants [get]
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	participants, err := h.participantService.List()
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, participants)
}

// GetParticipant godoc
// @Summary      Get a participant
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Participant ID"
// @Success      200 {object} Participant
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/participants/{id} [get]
func (h *ParticipantHandler) GetParticipant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid participant id"})
		return
	}

	participant, err := h.participantService.Get(uint(id))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, participant)
}

// CreateParticipant godoc
// @Summary      Create a participant
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.ParticipantInput true "Participant data"
// @Success      201 {object} Participant
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/participants [post]
func (h *ParticipantHandler) CreateParticipant(c *gin.Context) {
	var req services.ParticipantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, err := h.participantService.Create(req)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, participant)
}

// UpdateParticipant godoc
// @Summary      Update a participant
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Participant ID"
// @Param        request body services.ParticipantInput true "Participant data"
// @Success      200 {object} Participant
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/participants/{id} [put]
func (h *ParticipantHandler) UpdateParticipant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid participant id"})
		return
	}

	var req services.ParticipantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, err := h.participantService.Update(uint(id), req)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, participant)
}

// DeleteParticipant godoc
// @Summary      Delete a participant
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Participant ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/participants/{id} [delete]
func (h *ParticipantHandler) DeleteParticipant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid participant id"})
		return
	}

	if err := h.participantService.Delete(uint(id)); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "participant deleted"})
}
