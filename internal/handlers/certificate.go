package handlers

import (
	"net/http"
	"strconv"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"
	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/services"

	"github.com/gin-gonic/gin"
)

type CertificateHandler struct {
	certificateService *services.CertificateService
}

func NewCertificateHandler(certificateService *services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificateService: certificateService}
}

type BulkRequest struct {
	CertificateIDs []uint `json:"certificate_ids" binding:"required,min=1"`
}

type SyncRequest struct {
	TestType string `json:"test_type" binding:"required" example:"post_test"`
}

type SyncResponse struct {
	Created int `json:"created"`
}

// ListCertificates godoc
// @Summary      List certificates
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Param        test_type query string false "pre_test or post_test"
// @Success      200 {array} Certificate
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/certificates [get]
func (h *CertificateHandler) ListCertificates(c *gin.Context) {
	certs, err := h.certificateService.List(models.AssessmentType(c.Query("test_type")))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, certs)
}

// SyncCertificates godoc
// @Summary      Materialize pending certificates
// @Description  Creates a PENDING certificate for every latest submitted sitting of the given test type that has none yet.
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SyncRequest true "Test type"
// @Success      200 {object} SyncResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/certificates/sync [post]
func (h *CertificateHandler) SyncCertificates(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.certificateService.Sync(models.AssessmentType(req.TestType))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, SyncResponse{Created: created})
}

// IssueCertificate godoc
// @Summary      Issue a certificate
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Certificate ID"
// @Success      200 {object} Certificate
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/certificates/{id}/issue [post]
func (h *CertificateHandler) IssueCertificate(c *gin.Context) {
	h.single(c, h.certificateService.Issue)
}

// ApproveCertificate godoc
// @Summary      Approve a certificate
// @Description  Same transition as issue; logged under the "approve" audit verb.
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Certificate ID"
// @Success      200 {object} Certificate
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/certificates/{id}/approve [post]
func (h *CertificateHandler) ApproveCertificate(c *gin.Context) {
	h.single(c, h.certificateService.Approve)
}

// RevokeCertificate godoc
// @Summary      Revoke a certificate
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Certificate ID"
// @Success      200 {object} Certificate
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/certificates/{id}/revoke [post]
func (h *CertificateHandler) RevokeCertificate(c *gin.Context) {
	h.single(c, h.certificateService.Revoke)
}

func (h *CertificateHandler) single(c *gin.Context, op func(id, staffID uint) (*models.Certificate, error)) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid certificate id"})
		return
	}

	cert, err := op(uint(id), c.GetUint("staff_id"))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, cert)
}

// BulkIssue godoc
// @Summary      Issue certificates in bulk
// @Description  Applies the transition per id in request order. Items fail independently; earlier successes stand.
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BulkRequest true "Certificate ids"
// @Success      200 {object} BulkResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/certificates/bulk/issue [post]
func (h *CertificateHandler) BulkIssue(c *gin.Context) {
	h.bulkOp(c, h.certificateService.BulkIssue)
}

// BulkApprove godoc
// @Summary      Approve certificates in bulk
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BulkRequest true "Certificate ids"
// @Success      200 {object} BulkResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/certificates/bulk/approve [post]
func (h *CertificateHandler) BulkApprove(c *gin.Context) {
	h.bulkOp(c, h.certificateService.BulkApprove)
}

// BulkRevoke godoc
// @Summary      Revoke certificates in bulk
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BulkRequest true "Certificate ids"
// @Success      200 {object} BulkResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/certificates/bulk/revoke [post]
func (h *CertificateHandler) BulkRevoke(c *gin.Context) {
	h.bulkOp(c, h.certificateService.BulkRevoke)
}

func (h *CertificateHandler) bulkOp(c *gin.Context, op func(ids []uint, staffID uint) services.BulkResult) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, op(req.CertificateIDs, c.GetUint("staff_id")))
}

// CertificateRenderData godoc
// @Summary      Get the render record for an issued certificate
// @Description  Returns the flat data the certificate template consumes and counts the download.
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Certificate ID"
// @Success      200 {object} CertificateData
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/certificates/{id}/data [get]
func (h *CertificateHandler) CertificateRenderData(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid certificate id"})
		return
	}

	data, err := h.certificateService.Data(uint(id))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// CertificateTransitions godoc
// @Summary      Get a certificate's lifecycle audit log
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Certificate ID"
// @Success      200 {array} CertificateTransition
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/certificates/{id}/transitions [get]
func (h *CertificateHandler) CertificateTransitions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid certificate id"})
		return
	}

	entries, err := h.certificateService.Transitions(uint(id))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
