// Taxonomy HTTP handlers.
//
// This file exposes REST endpoints for the versioned CUJ taxonomy:
//   - POST   /categories                     (create category)
//   - GET    /categories                     (list categories)
//   - GET    /categories/{id}                (fetch one category)
//   - POST   /categories/{id}/cujs          (create CUJ under category)
//   - GET    /categories/{id}/cujs          (list CUJs of category)
//   - POST   /cujs/{id}/tasks               (create task under CUJ)
//   - GET    /cujs/{id}/tasks               (list tasks of CUJ)
//   - POST   /versions                       (record new version)
//   - GET    /versions                       (list versions)
//   - GET    /versions/active                (fetch the active version)
//   - PUT    /versions/{id}/activate         (make a version the active one)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//
// DTOs
//

// CreateCategoryRequest is the JSON payload for creating a CUJ category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255" example:"Navigation"`
	Description string `json:"description" example:"Getting from A to B"`
	Icon        string `json:"icon" example:"map-pin"`
}

// CreateCujRequest is the JSON payload for creating a CUJ.
type CreateCujRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255" example:"Navigate to a new destination"`
	Description string `json:"description" example:"Set and drive a route the user has never used"`
}

// CreateTaskRequest is the JSON payload for creating a task.
type CreateTaskRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=255" example:"Enter destination by voice"`
	Prerequisites   string `json:"prerequisites" example:"Vehicle on, navigation app closed"`
	ExpectedOutcome string `json:"expected_outcome" example:"Route preview is shown within 5 seconds"`
}

// CreateVersionRequest is the JSON payload for recording a taxonomy version.
type CreateVersionRequest struct {
	Label string `json:"label" binding:"required,min=1,max=255" example:"2026-Q1"`
}

//
// Handlers
//

// CreateCategory godoc
// @ID          createCategory
// @Summary     Create a CUJ category
// @Description Creates a top-level category for critical user journeys.
// @Tags        Taxonomy
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateCategoryRequest  true  "Category payload"
//
// @Success     201  {object}  domain.CujCategory
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /categories [post]
func (h *Handlers) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	cat, err := h.taxSvc.CreateCategory(c.Request.Context(), strings.TrimSpace(req.Name), req.Description, req.Icon)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, cat)
}

// ListCategories godoc
// @ID          listCategories
// @Summary     List CUJ categories
// @Tags        Taxonomy
// @Produce     json
//
// @Success     200  {array}   domain.CujCategory
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /categories [get]
func (h *Handlers) ListCategories(c *gin.Context) {
	cats, err := h.taxSvc.ListCategories(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, cats)
}

// GetCategory godoc
// @ID          getCategory
// @Summary     Fetch one CUJ category
// @Tags        Taxonomy
// @Produce     json
//
// @Param       id  path  string  true  "Category ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.CujCategory
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Category not found"
// @Router      /categories/{id} [get]
func (h *Handlers) GetCategory(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category id must be a UUID")
		return
	}
	cat, err := h.taxSvc.GetCategory(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, cat)
}

// CreateCuj godoc
// @ID          createCuj
// @Summary     Create a CUJ under a category
// @Tags        Taxonomy
// @Accept      json
// @Produce     json
//
// @Param       id    path  string                     true  "Category ID (UUID)"  format(uuid)
// @Param       body  body  handlers.CreateCujRequest  true  "CUJ payload"
//
// @Success     201  {object}  domain.Cuj
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Category not found"
// @Router      /categories/{id}/cujs [post]
func (h *Handlers) CreateCuj(c *gin.Context) {
	categoryID := c.Param("id")
	if _, err := uuid.Parse(categoryID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category id must be a UUID")
		return
	}
	var req CreateCujRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	cuj, err := h.taxSvc.CreateCuj(c.Request.Context(), strings.TrimSpace(req.Name), req.Description, categoryID)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, cuj)
}

// ListCujs godoc
// @ID          listCujs
// @Summary     List the CUJs of a category
// @Tags        Taxonomy
// @Produce     json
//
// @Param       id  path  string  true  "Category ID (UUID)"  format(uuid)
//
// @Success     200  {array}   domain.Cuj
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /categories/{id}/cujs [get]
func (h *Handlers) ListCujs(c *gin.Context) {
	categoryID := c.Param("id")
	if _, err := uuid.Parse(categoryID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category id must be a UUID")
		return
	}
	cujs, err := h.taxSvc.ListCujs(c.Request.Context(), categoryID)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, cujs)
}

// CreateTask godoc
// @ID          createTask
// @Summary     Create a task under a CUJ
// @Tags        Taxonomy
// @Accept      json
// @Produce     json
//
// @Param       id    path  string                      true  "CUJ ID (UUID)"  format(uuid)
// @Param       body  body  handlers.CreateTaskRequest  true  "Task payload"
//
// @Success     201  {object}  domain.Task
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "CUJ not found"
// @Router      /cujs/{id}/tasks [post]
func (h *Handlers) CreateTask(c *gin.Context) {
	cujID := c.Param("id")
	if _, err := uuid.Parse(cujID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cuj id must be a UUID")
		return
	}
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	task, err := h.taxSvc.CreateTask(c.Request.Context(), strings.TrimSpace(req.Name), cujID, req.Prerequisites, req.ExpectedOutcome)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, task)
}

// ListTasks godoc
// @ID          listTasks
// @Summary     List the tasks of a CUJ
// @Tags        Taxonomy
// @Produce     json
//
// @Param       id  path  string  true  "CUJ ID (UUID)"  format(uuid)
//
// @Success     200  {array}   domain.Task
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /cujs/{id}/tasks [get]
func (h *Handlers) ListTasks(c *gin.Context) {
	cujID := c.Param("id")
	if _, err := uuid.Parse(cujID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cuj id must be a UUID")
		return
	}
	tasks, err := h.taxSvc.ListTasks(c.Request.Context(), cujID)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, tasks)
}

// CreateVersion godoc
// @ID          createVersion
// @Summary     Record a new taxonomy version
// @Description The new version is inactive; activate it explicitly.
// @Tags        Taxonomy
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string                         false  "Acting user"
// @Param       body       body    handlers.CreateVersionRequest  true   "Version payload"
//
// @Success     201  {object}  domain.CujDatabaseVersion
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /versions [post]
func (h *Handlers) CreateVersion(c *gin.Context) {
	var req CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	v, err := h.taxSvc.CreateVersion(c.Request.Context(), strings.TrimSpace(req.Label), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, v)
}

// ListVersions godoc
// @ID          listVersions
// @Summary     List taxonomy versions
// @Tags        Taxonomy
// @Produce     json
//
// @Success     200  {array}   domain.CujDatabaseVersion
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /versions [get]
func (h *Handlers) ListVersions(c *gin.Context) {
	vs, err := h.taxSvc.ListVersions(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, vs)
}

// GetActiveVersion godoc
// @ID          getActiveVersion
// @Summary     Fetch the active taxonomy version
// @Tags        Taxonomy
// @Produce     json
//
// @Success     200  {object}  domain.CujDatabaseVersion
// @Failure     409  {object}  handlers.ErrorResponse  "No active version"
// @Router      /versions/active [get]
func (h *Handlers) GetActiveVersion(c *gin.Context) {
	v, err := h.taxSvc.ActiveVersion(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, v)
}

// ActivateVersion godoc
// @ID          activateVersion
// @Summary     Activate a taxonomy version
// @Description Atomically deactivates the current version and activates this one.
// @Tags        Taxonomy
// @Produce     json
//
// @Param       id  path  string  true  "Version ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.CujDatabaseVersion
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Version not found"
// @Router      /versions/{id}/activate [put]
func (h *Handlers) ActivateVersion(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "version id must be a UUID")
		return
	}
	v, err := h.taxSvc.ActivateVersion(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, v)
}
