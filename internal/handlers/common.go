package handlers

import (
	"errors"
	"net/http"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"
	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type Participant = models.Participant
type TestSubmission = models.TestSubmission
type ChecklistSubmission = models.ChecklistSubmission
type Certificate = models.Certificate
type CertificateTransition = models.CertificateTransition
type ComprehensiveResult = services.ComprehensiveResult
type CertificateData = services.CertificateData
type BulkResult = services.BulkResult

// statusFor maps service error kinds onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConcurrentOperation):
		return http.StatusConflict
	case errors.Is(err, services.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
