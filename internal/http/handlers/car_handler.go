// Car HTTP handlers.
//
// REST endpoints for the car catalog:
//   - POST   /cars        (register a build)
//   - GET    /cars        (list)
//   - GET    /cars/{id}   (fetch one)
//   - PATCH  /cars/{id}   (partial update)
//   - DELETE /cars/{id}   (remove)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/services"
)

// CreateCarRequest is the JSON payload for registering a car build.
type CreateCarRequest struct {
	Make             string `json:"make" binding:"required,min=1,max=128" example:"Polestar"`
	Model            string `json:"model" binding:"required,min=1,max=128" example:"4"`
	Year             int    `json:"year" binding:"required,gte=1990,lte=2100" example:"2026"`
	AndroidVersion   string `json:"android_version" example:"14"`
	BuildFingerprint string `json:"build_fingerprint" example:"polestar/p4/car:14/UQ1A.240105.004"`
	Location         string `json:"location" example:"Mountain View garage"`
	ImageURL         string `json:"image_url" example:"https://img.example.com/p4.jpg"`
}

// UpdateCarRequest is the JSON payload for a partial car update. Omitted
// fields keep their stored values.
type UpdateCarRequest struct {
	Make             *string `json:"make,omitempty" binding:"omitempty,min=1,max=128"`
	Model            *string `json:"model,omitempty" binding:"omitempty,min=1,max=128"`
	Year             *int    `json:"year,omitempty" binding:"omitempty,gte=1990,lte=2100"`
	AndroidVersion   *string `json:"android_version,omitempty"`
	BuildFingerprint *string `json:"build_fingerprint,omitempty"`
	Location         *string `json:"location,omitempty"`
	ImageURL         *string `json:"image_url,omitempty"`
}

// CreateCar godoc
// @ID          createCar
// @Summary     Register a car build
// @Tags        Cars
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateCarRequest  true  "Car payload"
//
// @Success     201  {object}  domain.Car
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /cars [post]
func (h *Handlers) CreateCar(c *gin.Context) {
	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	car, err := h.carSvc.Create(c.Request.Context(), domain.Car{
		Make:             strings.TrimSpace(req.Make),
		Model:            strings.TrimSpace(req.Model),
		Year:             req.Year,
		AndroidVersion:   req.AndroidVersion,
		BuildFingerprint: req.BuildFingerprint,
		Location:         req.Location,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, car)
}

// ListCars godoc
// @ID          listCars
// @Summary     List car builds
// @Tags        Cars
// @Produce     json
//
// @Success     200  {array}   domain.Car
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /cars [get]
func (h *Handlers) ListCars(c *gin.Context) {
	cars, err := h.carSvc.List(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, cars)
}

// GetCar godoc
// @ID          getCar
// @Summary     Fetch one car build
// @Tags        Cars
// @Produce     json
//
// @Param       id  path  string  true  "Car ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Car
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Car not found"
// @Router      /cars/{id} [get]
func (h *Handlers) GetCar(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "car id must be a UUID")
		return
	}
	car, err := h.carSvc.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, car)
}

// UpdateCar godoc
// @ID          updateCar
// @Summary     Update a car build
// @Description Partial update; omitted fields are left unchanged.
// @Tags        Cars
// @Accept      json
// @Produce     json
//
// @Param       id    path  string                     true  "Car ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateCarRequest  true  "Fields to change"
//
// @Success     200  {object}  domain.Car
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Car not found"
// @Router      /cars/{id} [patch]
func (h *Handlers) UpdateCar(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "car id must be a UUID")
		return
	}
	var req UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	car, err := h.carSvc.Update(c.Request.Context(), id, services.CarPatch{
		Make:             req.Make,
		Model:            req.Model,
		Year:             req.Year,
		AndroidVersion:   req.AndroidVersion,
		BuildFingerprint: req.BuildFingerprint,
		Location:         req.Location,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, car)
}

// DeleteCar godoc
// @ID          deleteCar
// @Summary     Remove a car build
// @Tags        Cars
//
// @Param       id  path  string  true  "Car ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Car not found"
// @Router      /cars/{id} [delete]
func (h *Handlers) DeleteCar(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "car id must be a UUID")
		return
	}
	if err := h.carSvc.Delete(c.Request.Context(), id); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
