// Review HTTP handlers.
//
// REST endpoints for the review lifecycle:
//   - POST  /reviews                  (create; binds the active taxonomy version)
//   - GET   /reviews/{id}             (fetch one)
//   - GET   /reviews                  (list by car_id, paginated, or by reviewer_id)
//   - PUT   /reviews/{id}/status      (in_progress or completed)
//   - PUT   /reviews/{id}/publish     (flip the publish flag)
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateReviewRequest is the JSON payload for starting a review.
type CreateReviewRequest struct {
	CarID      string     `json:"car_id" binding:"required,uuid" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	ReviewerID string     `json:"reviewer_id" binding:"required,min=1,max=64" example:"user123"`
	StartDate  *time.Time `json:"start_date,omitempty"`
}

// UpdateReviewStatusRequest is the JSON payload for a status transition.
type UpdateReviewStatusRequest struct {
	Status string `json:"status" binding:"required" example:"completed"`
}

// PublishReviewRequest is the JSON payload for the publish flag.
type PublishReviewRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}

// ListReviewsResponse wraps a page of reviews and pagination information.
type ListReviewsResponse struct {
	Reviews    any        `json:"reviews"`
	Pagination Pagination `json:"pagination"`
}

// CreateReview godoc
// @ID          createReview
// @Summary     Start a review
// @Description Creates a review of a car and binds it to the currently active taxonomy version. Fails with 409 when no version is active.
// @Tags        Reviews
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string                        false  "Acting user"
// @Param       body       body    handlers.CreateReviewRequest  true   "Review payload"
//
// @Success     201  {object}  domain.Review
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Car not found"
// @Failure     409  {object}  handlers.ErrorResponse  "No active taxonomy version"
// @Router      /reviews [post]
func (h *Handlers) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "car_id and reviewer_id are required")
		return
	}
	r, err := h.reviewSvc.Create(c.Request.Context(), req.CarID, req.ReviewerID, userID(c), req.StartDate)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, r)
}

// GetReview godoc
// @ID          getReview
// @Summary     Fetch one review
// @Tags        Reviews
// @Produce     json
//
// @Param       id  path  string  true  "Review ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Review
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Review not found"
// @Router      /reviews/{id} [get]
func (h *Handlers) GetReview(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}
	r, err := h.reviewSvc.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, r)
}

// ListReviews godoc
// @ID          listReviews
// @Summary     List reviews
// @Description Lists by car_id (paginated, X-Total-Count header) or by reviewer_id. Exactly one filter is required.
// @Tags        Reviews
// @Produce     json
//
// @Param       car_id       query  string  false  "Car ID (UUID)"  format(uuid)
// @Param       reviewer_id  query  string  false  "Reviewer ID"
// @Param       page         query  int     false  "Page number"     minimum(1) default(1)
// @Param       page_size    query  int     false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListReviewsResponse
// @Header      200  {string}  X-Total-Count  "Total matching reviews (car_id listing)"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /reviews [get]
func (h *Handlers) ListReviews(c *gin.Context) {
	carID := c.Query("car_id")
	reviewerID := c.Query("reviewer_id")
	if (carID == "") == (reviewerID == "") {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "exactly one of car_id, reviewer_id is required")
		return
	}

	ctx := c.Request.Context()
	if reviewerID != "" {
		rs, err := h.reviewSvc.ListByReviewer(ctx, reviewerID)
		if err != nil {
			failService(c, err)
			return
		}
		ok(c, http.StatusOK, rs)
		return
	}

	page, pageSize := clampPagination(c)
	pageData, err := h.reviewSvc.ListByCar(ctx, carID, (page-1)*pageSize, pageSize)
	if err != nil {
		failService(c, err)
		return
	}

	totalPages := int((pageData.Total + int64(pageSize) - 1) / int64(pageSize))
	c.Header("X-Total-Count", strconv.FormatInt(pageData.Total, 10))
	ok(c, http.StatusOK, ListReviewsResponse{
		Reviews: pageData.Reviews,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      pageData.Total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// UpdateReviewStatus godoc
// @ID          updateReviewStatus
// @Summary     Transition a review's status
// @Description Accepts in_progress or completed; moving back to not_started is rejected. Completion stamps end_date when unset.
// @Tags        Reviews
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string                             false  "Acting user"
// @Param       id         path    string                             true   "Review ID (UUID)"  format(uuid)
// @Param       body       body    handlers.UpdateReviewStatusRequest true   "New status"
//
// @Success     200  {object}  domain.Review
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid status"
// @Failure     404  {object}  handlers.ErrorResponse  "Review not found"
// @Router      /reviews/{id}/status [put]
func (h *Handlers) UpdateReviewStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}
	var req UpdateReviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status is required")
		return
	}
	r, err := h.reviewSvc.UpdateStatus(c.Request.Context(), id, req.Status, userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, r)
}

// PublishReview godoc
// @ID          publishReview
// @Summary     Set a review's publish flag
// @Description The flag is independent of status and gates report visibility for non-internal roles.
// @Tags        Reviews
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string                         false  "Acting user"
// @Param       id         path    string                         true   "Review ID (UUID)"  format(uuid)
// @Param       body       body    handlers.PublishReviewRequest  true   "Publish flag"
//
// @Success     200  {object}  domain.Review
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Review not found"
// @Router      /reviews/{id}/publish [put]
func (h *Handlers) PublishReview(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}
	var req PublishReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsPublished == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "is_published is required")
		return
	}
	r, err := h.reviewSvc.SetPublished(c.Request.Context(), id, *req.IsPublished, userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, r)
}
