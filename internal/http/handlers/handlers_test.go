package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/http/middleware"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
	"github.com/thetangstr/meridian-replit-sub001/internal/services"
)

// ---------- test DB + router ----------

func newHandlersDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:eval_handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestRouter wires real services over an in-memory store and mounts the
// API routes the way the production router does, with just the middleware
// the handlers depend on (identity and idempotency).
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newHandlersDB(t)
	h := New(
		&services.TaxonomyService{DB: db},
		&services.CarService{DB: db},
		&services.AssignmentService{DB: db},
		&services.ReviewService{DB: db},
		&services.EvaluationService{DB: db},
		&services.ScoringConfigService{DB: db},
		&services.ReportService{DB: db, LowScoreThreshold: 60},
		time.Hour,
	)

	r := gin.New()
	r.Use(middleware.Identity())
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{},
		func(ctx context.Context, userID, reviewID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, reviewID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	r.POST("/categories", h.CreateCategory)
	r.GET("/categories", h.ListCategories)
	r.GET("/categories/:id", h.GetCategory)
	r.POST("/categories/:id/cujs", h.CreateCuj)
	r.POST("/cujs/:id/tasks", h.CreateTask)
	r.POST("/versions", h.CreateVersion)
	r.GET("/versions/active", h.GetActiveVersion)
	r.PUT("/versions/:id/activate", h.ActivateVersion)

	r.POST("/cars", h.CreateCar)
	r.GET("/cars/:id", h.GetCar)
	r.PATCH("/cars/:id", h.UpdateCar)

	r.POST("/assignments", h.CreateAssignment)
	r.GET("/assignments", h.ListAssignments)
	r.DELETE("/assignments/:id", h.DeleteAssignment)

	r.GET("/scoring-config", h.GetScoringConfig)
	r.PATCH("/scoring-config/task-weights", h.UpdateTaskWeights)

	r.POST("/reviews", h.CreateReview)
	r.GET("/reviews", h.ListReviews)
	r.GET("/reviews/:id", h.GetReview)
	r.PUT("/reviews/:id/status", h.UpdateReviewStatus)
	r.PUT("/reviews/:id/publish", h.PublishReview)

	r.PUT("/reviews/:id/task-evaluations/:taskId", h.UpsertTaskEvaluation)
	r.GET("/reviews/:id/task-evaluations/:taskId", h.GetTaskEvaluation)
	r.GET("/reviews/:id/task-evaluations", h.ListTaskEvaluations)
	r.PUT("/reviews/:id/category-evaluations/:categoryId", h.UpsertCategoryEvaluation)
	r.POST("/reviews/:id/task-evaluations/:taskId/media", h.AttachTaskMedia)
	r.GET("/reviews/:id/progress", h.GetReviewProgress)

	r.POST("/reviews/:id/report", h.GenerateReport)
	r.GET("/reviews/:id/report", h.GetReport)

	return r, db
}

// doJSON performs a request with an optional JSON body and identity headers.
func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderUserID, "test-user")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeJSON[ErrorResponse](t, w).Code
}

// ---------- HTTP-level seed helpers ----------

// seedTaxonomyHTTP creates category -> CUJ -> task and an activated version
// through the API itself.
func seedTaxonomyHTTP(t *testing.T, r *gin.Engine) (categoryID, taskID string) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/categories", gin.H{"name": "Navigation"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create category: %d %s", w.Code, w.Body.String())
	}
	categoryID = decodeJSON[domain.CujCategory](t, w).ID

	w = doJSON(t, r, http.MethodPost, "/categories/"+categoryID+"/cujs", gin.H{"name": "Navigate home"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create cuj: %d %s", w.Code, w.Body.String())
	}
	cujID := decodeJSON[domain.Cuj](t, w).ID

	w = doJSON(t, r, http.MethodPost, "/cujs/"+cujID+"/tasks", gin.H{"name": "Start guidance"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: %d %s", w.Code, w.Body.String())
	}
	taskID = decodeJSON[domain.Task](t, w).ID

	w = doJSON(t, r, http.MethodPost, "/versions", gin.H{"label": "v1"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create version: %d %s", w.Code, w.Body.String())
	}
	verID := decodeJSON[domain.CujDatabaseVersion](t, w).ID

	w = doJSON(t, r, http.MethodPut, "/versions/"+verID+"/activate", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("activate version: %d %s", w.Code, w.Body.String())
	}
	return categoryID, taskID
}

func seedCarHTTP(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/cars", gin.H{"make": "polestar", "model": "4", "year": 2026}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create car: %d %s", w.Code, w.Body.String())
	}
	return decodeJSON[domain.Car](t, w).ID
}

func seedReviewHTTP(t *testing.T, r *gin.Engine, carID string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/reviews", gin.H{"car_id": carID, "reviewer_id": "alice"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create review: %d %s", w.Code, w.Body.String())
	}
	return decodeJSON[domain.Review](t, w).ID
}
