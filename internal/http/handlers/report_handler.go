// Report HTTP handlers.
//
// REST endpoints for report snapshots:
//   - POST  /reviews/{id}/report   (generate or regenerate the rollup)
//   - GET   /reviews/{id}/report   (fetch, publish-gated for non-internal roles)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thetangstr/meridian-replit-sub001/internal/http/middleware"
)

// GenerateReport godoc
// @ID          generateReport
// @Summary     Generate a review's report
// @Description Recomputes the score rollup and overwrites the review's single report row. Safe to call repeatedly.
// @Tags        Reports
// @Produce     json
//
// @Param       id  path  string  true  "Review ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Report
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Review not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Generation failed"
// @Router      /reviews/{id}/report [post]
func (h *Handlers) GenerateReport(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}
	report, err := h.reportSvc.Generate(c.Request.Context(), id)
	middleware.CountReportGeneration(err)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, report)
}

// GetReport godoc
// @ID          getReport
// @Summary     Fetch a review's report
// @Description Reports of unpublished reviews are only visible to internal roles (X-User-Role: internal or admin).
// @Tags        Reports
// @Produce     json
//
// @Param       X-User-Role  header  string  false  "Viewer role"  example(internal)
// @Param       id           path    string  true   "Review ID (UUID)"  format(uuid)
//
// @Success     200  {object}  services.ReportView
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Review not published"
// @Failure     404  {object}  handlers.ErrorResponse  "Review or report not found"
// @Router      /reviews/{id}/report [get]
func (h *Handlers) GetReport(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}
	view, err := h.reportSvc.Get(c.Request.Context(), id, middleware.UserRole(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}
