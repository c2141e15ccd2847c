// Scoring configuration HTTP handlers.
//
// REST endpoints for the process-wide weight record:
//   - GET   /scoring-config                    (current weights)
//   - PATCH /scoring-config/task-weights       (merge task-level weights)
//   - PATCH /scoring-config/category-weights   (merge category-level weights)
//
// Updates are partial merges. Negative weights are rejected; weight sums are
// not validated.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thetangstr/meridian-replit-sub001/internal/services"
)

// UpdateTaskWeightsRequest is the JSON payload for a task-weight merge.
// Omitted fields keep their stored values.
type UpdateTaskWeightsRequest struct {
	Doable      *float64 `json:"doable,omitempty" example:"43.75"`
	Usability   *float64 `json:"usability,omitempty" example:"18.75"`
	Interaction *float64 `json:"interaction,omitempty" example:"18.75"`
	Visuals     *float64 `json:"visuals,omitempty" example:"18.75"`
}

// UpdateCategoryWeightsRequest is the JSON payload for a category-weight
// merge. Omitted fields keep their stored values.
type UpdateCategoryWeightsRequest struct {
	TaskAverage    *float64 `json:"task_average,omitempty" example:"60"`
	Responsiveness *float64 `json:"responsiveness,omitempty" example:"15"`
	Writing        *float64 `json:"writing,omitempty" example:"15"`
	Emotional      *float64 `json:"emotional,omitempty" example:"10"`
}

// GetScoringConfig godoc
// @ID          getScoringConfig
// @Summary     Fetch the scoring weights
// @Description Returns the current weight record, materializing defaults on first access.
// @Tags        Scoring
// @Produce     json
//
// @Success     200  {object}  domain.ScoringConfig
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /scoring-config [get]
func (h *Handlers) GetScoringConfig(c *gin.Context) {
	cfg, err := h.cfgSvc.Get(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, cfg)
}

// UpdateTaskWeights godoc
// @ID          updateTaskWeights
// @Summary     Merge task-level scoring weights
// @Tags        Scoring
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.UpdateTaskWeightsRequest  true  "Weights to change"
//
// @Success     200  {object}  domain.ScoringConfig
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /scoring-config/task-weights [patch]
func (h *Handlers) UpdateTaskWeights(c *gin.Context) {
	var req UpdateTaskWeightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	cfg, err := h.cfgSvc.UpdateTaskWeights(c.Request.Context(), services.TaskWeightsPatch{
		Doable:      req.Doable,
		Usability:   req.Usability,
		Interaction: req.Interaction,
		Visuals:     req.Visuals,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, cfg)
}

// UpdateCategoryWeights godoc
// @ID          updateCategoryWeights
// @Summary     Merge category-level scoring weights
// @Tags        Scoring
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.UpdateCategoryWeightsRequest  true  "Weights to change"
//
// @Success     200  {object}  domain.ScoringConfig
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /scoring-config/category-weights [patch]
func (h *Handlers) UpdateCategoryWeights(c *gin.Context) {
	var req UpdateCategoryWeightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	cfg, err := h.cfgSvc.UpdateCategoryWeights(c.Request.Context(), services.CategoryWeightsPatch{
		TaskAverage:    req.TaskAverage,
		Responsiveness: req.Responsiveness,
		Writing:        req.Writing,
		Emotional:      req.Emotional,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, cfg)
}
