// Reviewer assignment HTTP handlers.
//
// REST endpoints for the (car, category) reviewer lock:
//   - POST   /assignments        (assign; 409 when the pair is held)
//   - DELETE /assignments/{id}   (unassign)
//   - GET    /assignments        (list by reviewer_id, car_id or category_id)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateAssignmentRequest is the JSON payload for assigning a reviewer to one
// category of one car.
type CreateAssignmentRequest struct {
	ReviewerID string `json:"reviewer_id" binding:"required,min=1,max=64" example:"user123"`
	CarID      string `json:"car_id" binding:"required,uuid" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	CategoryID string `json:"category_id" binding:"required,uuid" example:"5f1f9de3-63c1-4b08-9b52-26db2d58da3d"`
}

// CreateAssignment godoc
// @ID          createAssignment
// @Summary     Assign a reviewer to a car category
// @Description At most one reviewer holds a (car, category) pair; a held pair returns 409 regardless of which reviewer holds it.
// @Tags        Assignments
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateAssignmentRequest  true  "Assignment payload"
//
// @Success     201  {object}  domain.ReviewerAssignment
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Car or category not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Pair already assigned"
// @Router      /assignments [post]
func (h *Handlers) CreateAssignment(c *gin.Context) {
	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reviewer_id, car_id and category_id are required")
		return
	}
	a, err := h.assignSvc.Assign(c.Request.Context(), req.ReviewerID, req.CarID, req.CategoryID)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, a)
}

// DeleteAssignment godoc
// @ID          deleteAssignment
// @Summary     Release a reviewer assignment
// @Tags        Assignments
//
// @Param       id  path  string  true  "Assignment ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Assignment not found"
// @Router      /assignments/{id} [delete]
func (h *Handlers) DeleteAssignment(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "assignment id must be a UUID")
		return
	}
	if err := h.assignSvc.Unassign(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// ListAssignments godoc
// @ID          listAssignments
// @Summary     List reviewer assignments
// @Description Filter by exactly one of reviewer_id, car_id or category_id.
// @Tags        Assignments
// @Produce     json
//
// @Param       reviewer_id  query  string  false  "Reviewer ID"
// @Param       car_id       query  string  false  "Car ID (UUID)"       format(uuid)
// @Param       category_id  query  string  false  "Category ID (UUID)"  format(uuid)
//
// @Success     200  {array}   domain.ReviewerAssignment
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /assignments [get]
func (h *Handlers) ListAssignments(c *gin.Context) {
	reviewerID := c.Query("reviewer_id")
	carID := c.Query("car_id")
	categoryID := c.Query("category_id")

	set := 0
	for _, v := range []string{reviewerID, carID, categoryID} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "exactly one of reviewer_id, car_id, category_id is required")
		return
	}

	ctx := c.Request.Context()
	switch {
	case reviewerID != "":
		out, err := h.assignSvc.ByReviewer(ctx, reviewerID)
		if err != nil {
			failService(c, err)
			return
		}
		ok(c, http.StatusOK, out)
	case carID != "":
		out, err := h.assignSvc.ByCar(ctx, carID)
		if err != nil {
			failService(c, err)
			return
		}
		ok(c, http.StatusOK, out)
	default:
		out, err := h.assignSvc.ByCategory(ctx, categoryID)
		if err != nil {
			failService(c, err)
			return
		}
		ok(c, http.StatusOK, out)
	}
}
