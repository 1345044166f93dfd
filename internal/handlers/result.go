package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/services"

	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	resultService *services.ResultService
}

func NewResultHandler(resultService *services.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// ListResults godoc
// @Summary      List comprehensive results
// @Description  Aggregates every participant's seven assessment slots plus the remedial and certification decisions, filtered by query params.
// @Tags         results
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Substring of name, national id or job position"
// @Param        category query string false "all, Clinical or Non-Clinical"
// @Param        status query string false "all, PASS, FAIL, INCOMPLETE or NOT_TAKEN (matches any slot)"
// @Param        remedial query string false "all, ALLOWED or NOT_ALLOWED"
// @Param        certified query string false "all, CERTIFIED or NOT_CERTIFIED"
// @Param        date_range query string false "all, today, 7days, 30days or custom"
// @Param        start query string false "Custom range start (YYYY-MM-DD)"
// @Param        end query string false "Custom range end (YYYY-MM-DD)"
// @Success      200 {array} ComprehensiveResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/results [get]
func (h *ResultHandler) ListResults(c *gin.Context) {
	var filter services.ResultFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	for param, dest := range map[string]**time.Time{"start": &filter.CustomStart, "end": &filter.CustomEnd} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + " date, want YYYY-MM-DD"})
			return
		}
		*dest = &parsed
	}
	if err := filter.Validate(); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	results, err := h.resultService.AggregateAll()
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, services.FilterResults(results, filter))
}

// GetResult godoc
// @Summary      Get one participant's comprehensive result
// @Tags         results
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Participant ID"
// @Success      200 {object} ComprehensiveResult
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/results/{id} [get]
func (h *ResultHandler) GetResult(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid participant id"})
		return
	}

	result, err := h.resultService.Aggregate(uint(id))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
