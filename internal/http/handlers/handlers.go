// Handler wiring for the evaluation API.
//
// This file declares the service contracts consumed by the HTTP layer, the
// Handlers aggregate that binds them, and the shared helpers (identity
// extraction, pagination clamping, service-error translation). Handlers are
// transport-thin: they validate input, call application services, and
// translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/http/middleware"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
	"github.com/thetangstr/meridian-replit-sub001/internal/services"
	"github.com/thetangstr/meridian-replit-sub001/internal/utils"
)

//
// Service contracts (context-aware)
//

// TaxonomyService defines the versioned CUJ taxonomy operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type TaxonomyService interface {
	CreateCategory(ctx context.Context, name, description, icon string) (*domain.CujCategory, error)
	ListCategories(ctx context.Context) ([]domain.CujCategory, error)
	GetCategory(ctx context.Context, id string) (*domain.CujCategory, error)
	CreateCuj(ctx context.Context, name, description, categoryID string) (*domain.Cuj, error)
	ListCujs(ctx context.Context, categoryID string) ([]domain.Cuj, error)
	CreateTask(ctx context.Context, name, cujID, prerequisites, expectedOutcome string) (*domain.Task, error)
	ListTasks(ctx context.Context, cujID string) ([]domain.Task, error)
	CreateVersion(ctx context.Context, label, createdBy string) (*domain.CujDatabaseVersion, error)
	ListVersions(ctx context.Context) ([]domain.CujDatabaseVersion, error)
	ActivateVersion(ctx context.Context, id string) (*domain.CujDatabaseVersion, error)
	ActiveVersion(ctx context.Context) (*domain.CujDatabaseVersion, error)
}

// CarService defines car catalog operations consumed by HTTP handlers.
type CarService interface {
	Create(ctx context.Context, car domain.Car) (*domain.Car, error)
	Get(ctx context.Context, id string) (*domain.Car, error)
	List(ctx context.Context) ([]domain.Car, error)
	Update(ctx context.Context, id string, p services.CarPatch) (*domain.Car, error)
	Delete(ctx context.Context, id string) error
}

// AssignmentService defines reviewer assignment operations consumed by HTTP
// handlers.
type AssignmentService interface {
	Assign(ctx context.Context, reviewerID, carID, categoryID string) (*domain.ReviewerAssignment, error)
	Unassign(ctx context.Context, id string) error
	ByReviewer(ctx context.Context, reviewerID string) ([]domain.ReviewerAssignment, error)
	ByCar(ctx context.Context, carID string) ([]domain.ReviewerAssignment, error)
	ByCategory(ctx context.Context, categoryID string) ([]domain.ReviewerAssignment, error)
}

// ReviewService defines review lifecycle operations consumed by HTTP
// handlers.
type ReviewService interface {
	Create(ctx context.Context, carID, reviewerID, createdBy string, startDate *time.Time) (*domain.Review, error)
	Get(ctx context.Context, id string) (*domain.Review, error)
	ListByCar(ctx context.Context, carID string, offset, limit int) (*services.ReviewPage, error)
	ListByReviewer(ctx context.Context, reviewerID string) ([]domain.Review, error)
	UpdateStatus(ctx context.Context, id, status, modifiedBy string) (*domain.Review, error)
	SetPublished(ctx context.Context, id string, published bool, modifiedBy string) (*domain.Review, error)
}

// EvaluationService defines evaluation draft operations consumed by HTTP
// handlers.
type EvaluationService interface {
	UpsertTask(ctx context.Context, reviewID, taskID, actor string, patch repo.TaskEvaluationPatch) (*domain.TaskEvaluation, error)
	UpsertCategory(ctx context.Context, reviewID, categoryID, actor string, patch repo.CategoryEvaluationPatch) (*domain.CategoryEvaluation, error)
	GetTask(ctx context.Context, reviewID, taskID string) (*domain.TaskEvaluation, error)
	GetCategory(ctx context.Context, reviewID, categoryID string) (*domain.CategoryEvaluation, error)
	ListTask(ctx context.Context, reviewID string) ([]domain.TaskEvaluation, error)
	ListCategory(ctx context.Context, reviewID string) ([]domain.CategoryEvaluation, error)
	AttachTaskMedia(ctx context.Context, reviewID, taskID string, ref domain.MediaReference) (*domain.MediaReference, error)
	AttachCategoryMedia(ctx context.Context, reviewID, categoryID string, ref domain.MediaReference) (*domain.MediaReference, error)
	Progress(ctx context.Context, reviewID string) (*services.ReviewProgress, error)
}

// ScoringConfigService defines scoring weight operations consumed by HTTP
// handlers.
type ScoringConfigService interface {
	Get(ctx context.Context) (*domain.ScoringConfig, error)
	UpdateTaskWeights(ctx context.Context, p services.TaskWeightsPatch) (*domain.ScoringConfig, error)
	UpdateCategoryWeights(ctx context.Context, p services.CategoryWeightsPatch) (*domain.ScoringConfig, error)
}

// ReportService defines report snapshot operations consumed by HTTP handlers.
type ReportService interface {
	Generate(ctx context.Context, reviewID string) (*domain.Report, error)
	Get(ctx context.Context, reviewID, viewerRole string) (*services.ReportView, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the evaluation API. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	taxSvc    TaxonomyService
	carSvc    CarService
	assignSvc AssignmentService
	reviewSvc ReviewService
	evalSvc   EvaluationService
	cfgSvc    ScoringConfigService
	reportSvc ReportService

	// idemTTL bounds how long a stored idempotency record answers replays.
	idemTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
func New(
	taxSvc TaxonomyService,
	carSvc CarService,
	assignSvc AssignmentService,
	reviewSvc ReviewService,
	evalSvc EvaluationService,
	cfgSvc ScoringConfigService,
	reportSvc ReportService,
	idemTTL time.Duration,
) *Handlers {
	return &Handlers{
		taxSvc:    taxSvc,
		carSvc:    carSvc,
		assignSvc: assignSvc,
		reviewSvc: reviewSvc,
		evalSvc:   evalSvc,
		cfgSvc:    cfgSvc,
		reportSvc: reportSvc,
		idemTTL:   idemTTL,
	}
}

// userID extracts the caller's id set by the identity middleware. Falls back
// to "anonymous" so audit stamps are never empty.
func userID(c *gin.Context) string {
	if uid := middleware.UserID(c); uid != "" {
		return uid
	}
	return "anonymous"
}

//
// Shared DTO pieces
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// failService maps the service-level sentinel errors onto HTTP statuses and
// stable codes. Unknown errors become a 500 so nothing internal leaks as a
// client fault.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrCujNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrVersionNotFound),
		errors.Is(err, services.ErrCarNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrEvaluationNotFound),
		errors.Is(err, services.ErrReportNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrAssignmentExists):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrNoActiveVersion):
		fail(c, http.StatusConflict, ErrCodeNoActiveVersion, err.Error())
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrNegativeWeight):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrMediaTooLong):
		fail(c, http.StatusBadRequest, ErrCodeMediaTooLong, err.Error())
	case errors.Is(err, services.ErrReportNotVisible):
		fail(c, http.StatusForbidden, ErrCodeNotPublished, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
