// Evaluation HTTP handlers.
//
// REST endpoints for reviewer ratings within a review:
//   - PUT   /reviews/{id}/task-evaluations/{taskId}           (partial-merge upsert)
//   - GET   /reviews/{id}/task-evaluations/{taskId}           (fetch draft)
//   - GET   /reviews/{id}/task-evaluations                    (list drafts)
//   - PUT   /reviews/{id}/category-evaluations/{categoryId}   (partial-merge upsert)
//   - GET   /reviews/{id}/category-evaluations/{categoryId}   (fetch draft)
//   - GET   /reviews/{id}/category-evaluations                (list drafts)
//   - POST  /reviews/{id}/task-evaluations/{taskId}/media     (attach media reference)
//   - POST  /reviews/{id}/category-evaluations/{categoryId}/media
//   - GET   /reviews/{id}/progress                            (completeness summary)
//
// Submits honor the Idempotency-Key header: a replayed key for the same
// (user, review) returns the stored draft instead of re-applying the write.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/http/middleware"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
	"github.com/thetangstr/meridian-replit-sub001/internal/services"
)

//
// DTOs
//

// UpsertTaskEvaluationRequest is the JSON payload for a task evaluation
// write. All fields are optional; omitted fields keep their stored values so
// drafts can be saved incrementally. Scores are 0..100.
type UpsertTaskEvaluationRequest struct {
	Doable            *bool    `json:"doable,omitempty"`
	UndoableReason    *string  `json:"undoable_reason,omitempty" binding:"omitempty,max=4000"`
	UsabilityScore    *float64 `json:"usability_score,omitempty" binding:"omitempty,gte=0,lte=100"`
	UsabilityFeedback *string  `json:"usability_feedback,omitempty" binding:"omitempty,max=4000"`
	VisualsScore      *float64 `json:"visuals_score,omitempty" binding:"omitempty,gte=0,lte=100"`
	VisualsFeedback   *string  `json:"visuals_feedback,omitempty" binding:"omitempty,max=4000"`
}

// UpsertCategoryEvaluationRequest is the JSON payload for a category
// evaluation write, under the same partial-merge contract.
type UpsertCategoryEvaluationRequest struct {
	ResponsivenessScore    *float64 `json:"responsiveness_score,omitempty" binding:"omitempty,gte=0,lte=100"`
	ResponsivenessFeedback *string  `json:"responsiveness_feedback,omitempty" binding:"omitempty,max=4000"`
	WritingScore           *float64 `json:"writing_score,omitempty" binding:"omitempty,gte=0,lte=100"`
	WritingFeedback        *string  `json:"writing_feedback,omitempty" binding:"omitempty,max=4000"`
	EmotionalScore         *float64 `json:"emotional_score,omitempty" binding:"omitempty,gte=0,lte=100"`
	EmotionalFeedback      *string  `json:"emotional_feedback,omitempty" binding:"omitempty,max=4000"`
}

// AttachMediaRequest is the JSON payload for attaching a media reference to
// an evaluation. MediaID is an opaque id from the media reference service;
// clips longer than 120 seconds are rejected.
type AttachMediaRequest struct {
	MediaID         string  `json:"media_id" binding:"required,min=1,max=128" example:"med_8f3a"`
	MimeType        string  `json:"mime_type" binding:"omitempty,max=64" example:"video/mp4"`
	SizeBytes       int64   `json:"size_bytes" binding:"omitempty,gte=0"`
	DurationSeconds float64 `json:"duration_seconds" binding:"omitempty,gte=0" example:"42.5"`
}

//
// Helpers
//

// evalDB exposes the evaluation service's database handle for the best-effort
// idempotency record write. Interface consumers without a concrete
// EvaluationService simply skip key persistence.
func (h *Handlers) evalDB() *gorm.DB {
	if svc, ok := h.evalSvc.(*services.EvaluationService); ok {
		return svc.DB
	}
	return nil
}

// rememberIdempotency stores the submit's idempotency record, if a key was
// supplied. Failures are swallowed: a lost record only means one extra
// harmless re-apply on retry.
func (h *Handlers) rememberIdempotency(c *gin.Context, reviewID, evaluationID string, status int) {
	key, present := middleware.GetIdempotencyKey(c)
	if !present {
		return
	}
	db := h.evalDB()
	if db == nil {
		return
	}
	_, _ = repo.CreateIdempotency(c.Request.Context(), db, userID(c), reviewID, key, evaluationID, status, h.idemTTL)
}

//
// Handlers
//

// UpsertTaskEvaluation godoc
// @ID          upsertTaskEvaluation
// @Summary     Write a task evaluation draft
// @Description Creates the draft on first write; later writes merge only the supplied fields. A not_started review becomes in_progress.
// @Tags        Evaluations
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string                                false  "Acting user"
// @Param       Idempotency-Key  header  string                                false  "Safe-retry key"
// @Param       id               path    string                                true   "Review ID (UUID)"  format(uuid)
// @Param       taskId           path    string                                true   "Task ID (UUID)"    format(uuid)
// @Param       body             body    handlers.UpsertTaskEvaluationRequest  true   "Fields to merge"
//
// @Success     200  {object}  domain.TaskEvaluation
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Review or task not found"
// @Router      /reviews/{id}/task-evaluations/{taskId} [put]
func (h *Handlers) UpsertTaskEvaluation(c *gin.Context) {
	reviewID := c.Param("id")
	taskID := c.Param("taskId")
	if _, err := uuid.Parse(reviewID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}
	if _, err := uuid.Parse(taskID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "task id must be a UUID")
		return
	}

	// A replayed key means the write already happened; return the stored
	// draft without re-applying.
	if middleware.IsReplay(c) {
		ev, err := h.evalSvc.GetTask(c.Request.Context(), reviewID, taskID)
		if err != nil {
			failService(c, err)
			return
		}
		if ev != nil {
			ok(c, http.StatusOK, ev)
			return
		}
	}

	var req UpsertTaskEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ev, err := h.evalSvc.UpsertTask(c.Request.Context(), reviewID, taskID, userID(c), repo.TaskEvaluationPatch{
		Doable:            req.Doable,
		UndoableReason:    req.UndoableReason,
		UsabilityScore:    req.UsabilityScore,
		UsabilityFeedback: req.UsabilityFeedback,
		VisualsScore:      req.VisualsScore,
		VisualsFeedback:   req.VisualsFeedback,
	})
	if err != nil {
		failService(c, err)
		return
	}
	h.rememberIdempotency(c, reviewID, ev.ID, http.StatusOK)
	ok(c, http.StatusOK, ev)
}

// GetTaskEvaluation godoc
// @ID          getTaskEvaluation
// @Summary     Fetch a task evaluation draft
// @Tags        Evaluations
// @Produce     json
//
// @Param       id      path  string  true  "Review ID (UUID)"  format(uuid)
// @Param       taskId  path  string  true  "Task ID (UUID)"    format(uuid)
//
// @Success     200  {object}  domain.TaskEvaluation
// @Failure     404  {object}  handlers.ErrorResponse  "Review or draft not found"
// @Router      /reviews/{id}/task-evaluations/{taskId} [get]
func (h *Handlers) GetTaskEvaluation(c *gin.Context) {
	reviewID := c.Param("id")
	taskID := c.Param("taskId")
	ev, err := h.evalSvc.GetTask(c.Request.Context(), reviewID, taskID)
	if err != nil {
		failService(c, err)
		return
	}
	if ev == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no evaluation for this task yet")
		return
	}
	ok(c, http.StatusOK, ev)
}

// ListTaskEvaluations godoc
// @ID          listTaskEvaluations
// @Summary     List a review's task evaluations
// @Tags        Evaluations
// @Produce     json
//
// @Param       id  path  string  true  "Review ID (UUID)"  format(uuid)
//
// @Success     200  {array}   domain.TaskEvaluation
// @Failure     404  {object}  handlers.ErrorResponse  "Review not found"
// @Router      /reviews/{id}/task-evaluations [get]
func (h *Handlers) ListTaskEvaluations(c *gin.Context) {
	evs, err := h.evalSvc.ListTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, evs)
}

// UpsertCategoryEvaluation godoc
// @ID          upsertCategoryEvaluation
// @Summary     Write a category evaluation draft
// @Description Same partial-merge contract as task evaluations.
// @Tags        Evaluations
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string                                    false  "Acting user"
// @Param       Idempotency-Key  header  string                                    false  "Safe-retry key"
// @Param       id               path    string                                    true   "Review ID (UUID)"    format(uuid)
// @Param       categoryId       path    string                                    true   "Category ID (UUID)"  format(uuid)
// @Param       body             body    handlers.UpsertCategoryEvaluationRequest  true   "Fields to merge"
//
// @Success     200  {object}  domain.CategoryEvaluation
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Review or category not found"
// @Router      /reviews/{id}/category-evaluations/{categoryId} [put]
func (h *Handlers) UpsertCategoryEvaluation(c *gin.Context) {
	reviewID := c.Param("id")
	categoryID := c.Param("categoryId")
	if _, err := uuid.Parse(reviewID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}
	if _, err := uuid.Parse(categoryID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category id must be a UUID")
		return
	}

	if middleware.IsReplay(c) {
		ev, err := h.evalSvc.GetCategory(c.Request.Context(), reviewID, categoryID)
		if err != nil {
			failService(c, err)
			return
		}
		if ev != nil {
			ok(c, http.StatusOK, ev)
			return
		}
	}

	var req UpsertCategoryEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ev, err := h.evalSvc.UpsertCategory(c.Request.Context(), reviewID, categoryID, userID(c), repo.CategoryEvaluationPatch{
		ResponsivenessScore:    req.ResponsivenessScore,
		ResponsivenessFeedback: req.ResponsivenessFeedback,
		WritingScore:           req.WritingScore,
		WritingFeedback:        req.WritingFeedback,
		EmotionalScore:         req.EmotionalScore,
		EmotionalFeedback:      req.EmotionalFeedback,
	})
	if err != nil {
		failService(c, err)
		return
	}
	h.rememberIdempotency(c, reviewID, ev.ID, http.StatusOK)
	ok(c, http.StatusOK, ev)
}

// GetCategoryEvaluation godoc
// @ID          getCategoryEvaluation
// @Summary     Fetch a category evaluation draft
// @Tags        Evaluations
// @Produce     json
//
// @Param       id          path  string  true  "Review ID (UUID)"    format(uuid)
// @Param       categoryId  path  string  true  "Category ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.CategoryEvaluation
// @Failure     404  {object}  handlers.ErrorResponse  "Review or draft not found"
// @Router      /reviews/{id}/category-evaluations/{categoryId} [get]
func (h *Handlers) GetCategoryEvaluation(c *gin.Context) {
	ev, err := h.evalSvc.GetCategory(c.Request.Context(), c.Param("id"), c.Param("categoryId"))
	if err != nil {
		failService(c, err)
		return
	}
	if ev == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no evaluation for this category yet")
		return
	}
	ok(c, http.StatusOK, ev)
}

// ListCategoryEvaluations godoc
// @ID          listCategoryEvaluations
// @Summary     List a review's category evaluations
// @Tags        Evaluations
// @Produce     json
//
// @Param       id  path  string  true  "Review ID (UUID)"  format(uuid)
//
// @Success     200  {array}   domain.CategoryEvaluation
// @Failure     404  {object}  handlers.ErrorResponse  "Review not found"
// @Router      /reviews/{id}/category-evaluations [get]
func (h *Handlers) ListCategoryEvaluations(c *gin.Context) {
	evs, err := h.evalSvc.ListCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, evs)
}

// AttachTaskMedia godoc
// @ID          attachTaskMedia
// @Summary     Attach a media reference to a task evaluation
// @Description Stores the opaque reference; clips over 120 seconds are rejected.
// @Tags        Evaluations
// @Accept      json
// @Produce     json
//
// @Param       id      path  string                       true  "Review ID (UUID)"  format(uuid)
// @Param       taskId  path  string                       true  "Task ID (UUID)"    format(uuid)
// @Param       body    body  handlers.AttachMediaRequest  true  "Media reference"
//
// @Success     201  {object}  domain.MediaReference
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or media too long"
// @Failure     404  {object}  handlers.ErrorResponse  "Draft not found"
// @Router      /reviews/{id}/task-evaluations/{taskId}/media [post]
func (h *Handlers) AttachTaskMedia(c *gin.Context) {
	var req AttachMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "media_id is required")
		return
	}
	ref, err := h.evalSvc.AttachTaskMedia(c.Request.Context(), c.Param("id"), c.Param("taskId"), domain.MediaReference{
		MediaID:         req.MediaID,
		MimeType:        req.MimeType,
		SizeBytes:       req.SizeBytes,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, ref)
}

// AttachCategoryMedia godoc
// @ID          attachCategoryMedia
// @Summary     Attach a media reference to a category evaluation
// @Tags        Evaluations
// @Accept      json
// @Produce     json
//
// @Param       id          path  string                       true  "Review ID (UUID)"    format(uuid)
// @Param       categoryId  path  string                       true  "Category ID (UUID)"  format(uuid)
// @Param       body        body  handlers.AttachMediaRequest  true  "Media reference"
//
// @Success     201  {object}  domain.MediaReference
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or media too long"
// @Failure     404  {object}  handlers.ErrorResponse  "Draft not found"
// @Router      /reviews/{id}/category-evaluations/{categoryId}/media [post]
func (h *Handlers) AttachCategoryMedia(c *gin.Context) {
	var req AttachMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "media_id is required")
		return
	}
	ref, err := h.evalSvc.AttachCategoryMedia(c.Request.Context(), c.Param("id"), c.Param("categoryId"), domain.MediaReference{
		MediaID:         req.MediaID,
		MimeType:        req.MimeType,
		SizeBytes:       req.SizeBytes,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, ref)
}

// GetReviewProgress godoc
// @ID          getReviewProgress
// @Summary     Summarize a review's completeness
// @Description A task counts as complete once doable is answered and, for doable tasks, both scores are present.
// @Tags        Evaluations
// @Produce     json
//
// @Param       id  path  string  true  "Review ID (UUID)"  format(uuid)
//
// @Success     200  {object}  services.ReviewProgress
// @Failure     404  {object}  handlers.ErrorResponse  "Review not found"
// @Router      /reviews/{id}/progress [get]
func (h *Handlers) GetReviewProgress(c *gin.Context) {
	p, err := h.evalSvc.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}
