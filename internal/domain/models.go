// Package domain defines the persistence models for the CUJ taxonomy, cars,
// reviewer assignments, reviews, evaluations, scoring configuration, and
// reports. These types are mapped with GORM and form the core data layer of
// the evaluation service.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Review lifecycle statuses. There is no transition back to StatusNotStarted:
// the first evaluation write moves a review to StatusInProgress, and
// StatusCompleted is only ever set by an explicit status update.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// CujCategory is a top-level grouping of critical user journeys (e.g.
// "Navigation", "Media"). Categories are owned by the taxonomy and treated as
// immutable once a CUJ references them.
type CujCategory struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string         `json:"name"        gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Icon        string         `json:"icon"        gorm:"type:varchar(64)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for CujCategory.
func (CujCategory) TableName() string { return "cuj_categories" }

// Cuj is a critical user journey: a named user goal inside a category,
// composed of one or more tasks.
type Cuj struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string         `json:"name"        gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text"`
	CategoryID  string         `json:"category_id" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`

	// Category is the owning category. CUJs are cascade-deleted with it.
	Category CujCategory `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Cuj.
func (Cuj) TableName() string { return "cujs" }

// Task is a single evaluable step within a CUJ.
type Task struct {
	ID              string         `json:"id"               gorm:"type:char(36);primaryKey"`
	Name            string         `json:"name"             gorm:"type:varchar(255);not null"`
	CujID           string         `json:"cuj_id"           gorm:"type:char(36);not null;index"`
	Prerequisites   string         `json:"prerequisites"    gorm:"type:text"`
	ExpectedOutcome string         `json:"expected_outcome" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-"                gorm:"index"`

	Cuj Cuj `json:"-" gorm:"foreignKey:CujID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Task.
func (Task) TableName() string { return "tasks" }

// CujDatabaseVersion is an activatable snapshot marker for the taxonomy.
// Reviews bind to a version at creation so historical reviews stay scored
// against the taxonomy as it existed when the review began.
//
// Invariant: exactly one version has IsActive = true at any time. Activation
// flips the flag atomically (see repo.ActivateVersion).
type CujDatabaseVersion struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Label     string         `json:"label"      gorm:"type:varchar(255);not null"`
	IsActive  bool           `json:"is_active"  gorm:"not null;default:false;index"`
	CreatedBy string         `json:"created_by" gorm:"type:varchar(64)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for CujDatabaseVersion.
func (CujDatabaseVersion) TableName() string { return "cuj_database_versions" }

// Car is a vehicle infotainment build under evaluation.
type Car struct {
	ID               string         `json:"id"                gorm:"type:char(36);primaryKey"`
	Make             string         `json:"make"              gorm:"type:varchar(128);not null"`
	Model            string         `json:"model"             gorm:"type:varchar(128);not null"`
	Year             int            `json:"year"              gorm:"not null"`
	AndroidVersion   string         `json:"android_version"   gorm:"type:varchar(64)"`
	BuildFingerprint string         `json:"build_fingerprint" gorm:"type:varchar(255)"`
	Location         string         `json:"location"          gorm:"type:varchar(255)"`
	ImageURL         string         `json:"image_url"         gorm:"type:varchar(512)"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-"                 gorm:"index"`
}

// TableName returns the database table name for Car.
func (Car) TableName() string { return "cars" }

// ReviewerAssignment binds a reviewer to one category of one car.
// The pair (car_id, category_id) is unique across all assignments: a category
// on a given car has exactly one assigned reviewer regardless of how many
// reviewers exist. Reviewer identity is an opaque id from the identity
// service, so there is deliberately no FK on reviewer_id.
type ReviewerAssignment struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	ReviewerID string    `json:"reviewer_id" gorm:"type:varchar(64);not null;index"`
	CarID      string    `json:"car_id"      gorm:"type:char(36);not null;index;uniqueIndex:ux_assignment_car_category"`
	CategoryID string    `json:"category_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_assignment_car_category"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Car      Car         `json:"-" gorm:"foreignKey:CarID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Category CujCategory `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ReviewerAssignment.
func (ReviewerAssignment) TableName() string { return "reviewer_assignments" }

// Review is one reviewer's evaluation pass over one car. It binds to the
// taxonomy version that was active when the review was created; the binding
// never changes afterwards. IsPublished is independent of Status and gates
// report visibility for non-internal roles.
type Review struct {
	ID                   string         `json:"id"                      gorm:"type:char(36);primaryKey"`
	CarID                string         `json:"car_id"                  gorm:"type:char(36);not null;index"`
	ReviewerID           string         `json:"reviewer_id"             gorm:"type:varchar(64);not null;index"`
	Status               string         `json:"status"                  gorm:"type:varchar(16);not null;default:'not_started';check:status IN ('not_started','in_progress','completed')"`
	IsPublished          bool           `json:"is_published"            gorm:"not null;default:false"`
	StartDate            *time.Time     `json:"start_date,omitempty"`
	EndDate              *time.Time     `json:"end_date,omitempty"`
	CujDatabaseVersionID string         `json:"cuj_database_version_id" gorm:"type:char(36);not null;index"`
	CreatedBy            string         `json:"created_by"              gorm:"type:varchar(64)"`
	CreatedAt            time.Time      `json:"created_at"`
	LastModifiedBy       string         `json:"last_modified_by"        gorm:"type:varchar(64)"`
	LastModifiedAt       time.Time      `json:"last_modified_at"`
	DeletedAt            gorm.DeletedAt `json:"-"                       gorm:"index"`

	Car     Car                `json:"-" gorm:"foreignKey:CarID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Version CujDatabaseVersion `json:"-" gorm:"foreignKey:CujDatabaseVersionID;references:ID"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }

// TaskEvaluation is a reviewer's rating of a single task within a review,
// keyed uniquely by (review_id, task_id). All rating fields are nullable so a
// draft can be persisted with only a subset populated and merged later.
// Scores are stored normalized to 0..100.
type TaskEvaluation struct {
	ID                string    `json:"id"                 gorm:"type:char(36);primaryKey"`
	ReviewID          string    `json:"review_id"          gorm:"type:char(36);not null;index;uniqueIndex:ux_task_eval_review_task"`
	TaskID            string    `json:"task_id"            gorm:"type:char(36);not null;index;uniqueIndex:ux_task_eval_review_task"`
	Doable            *bool     `json:"doable,omitempty"`
	UndoableReason    *string   `json:"undoable_reason,omitempty"    gorm:"type:text"`
	UsabilityScore    *float64  `json:"usability_score,omitempty"`
	UsabilityFeedback *string   `json:"usability_feedback,omitempty" gorm:"type:text"`
	VisualsScore      *float64  `json:"visuals_score,omitempty"`
	VisualsFeedback   *string   `json:"visuals_feedback,omitempty"   gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
	LastModifiedAt    time.Time `json:"last_modified_at"`

	Review Review `json:"-" gorm:"foreignKey:ReviewID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Task   Task   `json:"-" gorm:"foreignKey:TaskID;references:ID"`

	Media []MediaReference `json:"media,omitempty" gorm:"foreignKey:TaskEvaluationID;references:ID"`
}

// TableName returns the database table name for TaskEvaluation.
func (TaskEvaluation) TableName() string { return "task_evaluations" }

// CategoryEvaluation is a reviewer's category-level rating within a review,
// keyed uniquely by (review_id, category_id). Same draft/merge contract as
// TaskEvaluation; scores are stored normalized to 0..100.
type CategoryEvaluation struct {
	ID                     string    `json:"id"                  gorm:"type:char(36);primaryKey"`
	ReviewID               string    `json:"review_id"           gorm:"type:char(36);not null;index;uniqueIndex:ux_cat_eval_review_category"`
	CategoryID             string    `json:"category_id"         gorm:"type:char(36);not null;index;uniqueIndex:ux_cat_eval_review_category"`
	ResponsivenessScore    *float64  `json:"responsiveness_score,omitempty"`
	ResponsivenessFeedback *string   `json:"responsiveness_feedback,omitempty" gorm:"type:text"`
	WritingScore           *float64  `json:"writing_score,omitempty"`
	WritingFeedback        *string   `json:"writing_feedback,omitempty"        gorm:"type:text"`
	EmotionalScore         *float64  `json:"emotional_score,omitempty"`
	EmotionalFeedback      *string   `json:"emotional_feedback,omitempty"      gorm:"type:text"`
	CreatedAt              time.Time `json:"created_at"`
	LastModifiedAt         time.Time `json:"last_modified_at"`

	Review   Review      `json:"-" gorm:"foreignKey:ReviewID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Category CujCategory `json:"-" gorm:"foreignKey:CategoryID;references:ID"`

	Media []MediaReference `json:"media,omitempty" gorm:"foreignKey:CategoryEvaluationID;references:ID"`
}

// TableName returns the database table name for CategoryEvaluation.
func (CategoryEvaluation) TableName() string { return "category_evaluations" }

// MediaReference points at an externally stored media item (screenshot or
// clip) attached to an evaluation. The service never handles media bytes;
// MediaID is an opaque id from the media reference service. DurationSeconds
// is validated against the 120-second cap before a reference is accepted.
type MediaReference struct {
	ID                   string    `json:"id"               gorm:"type:char(36);primaryKey"`
	TaskEvaluationID     *string   `json:"-"                gorm:"type:char(36);index"`
	CategoryEvaluationID *string   `json:"-"                gorm:"type:char(36);index"`
	MediaID              string    `json:"media_id"         gorm:"type:varchar(128);not null"`
	MimeType             string    `json:"mime_type"        gorm:"type:varchar(64)"`
	SizeBytes            int64     `json:"size_bytes"`
	DurationSeconds      float64   `json:"duration_seconds"`
	CreatedAt            time.Time `json:"created_at"`
}

// TableName returns the database table name for MediaReference.
func (MediaReference) TableName() string { return "media_references" }

// ScoringConfig is the single process-wide weight record driving the rollup.
// All weights are percentages. Sums are intentionally not validated or
// normalized; a group summing past 100 produces out-of-range scores, matching
// current product behavior.
type ScoringConfig struct {
	ID string `json:"id" gorm:"type:varchar(16);primaryKey"`

	// Task-level weights.
	DoableWeight      float64 `json:"doable_weight"      gorm:"not null"`
	UsabilityWeight   float64 `json:"usability_weight"   gorm:"not null"`
	InteractionWeight float64 `json:"interaction_weight" gorm:"not null"`
	VisualsWeight     float64 `json:"visuals_weight"     gorm:"not null"`

	// Category-level weights.
	TaskAverageWeight    float64 `json:"task_average_weight"   gorm:"not null"`
	ResponsivenessWeight float64 `json:"responsiveness_weight" gorm:"not null"`
	WritingWeight        float64 `json:"writing_weight"        gorm:"not null"`
	EmotionalWeight      float64 `json:"emotional_weight"      gorm:"not null"`

	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for ScoringConfig.
func (ScoringConfig) TableName() string { return "scoring_configs" }

// Report is the cached rollup snapshot for a review, 1:1 with Review and
// upserted in place on every generation. It is derived data: safe to
// recompute and overwrite at any time, never an independent source of truth.
// Breakdown and issue lists are stored as JSON text columns.
type Report struct {
	ID                string    `json:"id"            gorm:"type:char(36);primaryKey"`
	ReviewID          string    `json:"review_id"     gorm:"type:char(36);not null;uniqueIndex:ux_report_review"`
	OverallScore      float64   `json:"overall_score" gorm:"not null"`
	CategoryBreakdown string    `json:"-"             gorm:"type:text;not null"`
	TaskBreakdown     string    `json:"-"             gorm:"type:text;not null"`
	TopIssues         string    `json:"-"             gorm:"type:text;not null"`
	Summary           string    `json:"summary"       gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
	LastModifiedAt    time.Time `json:"last_modified_at"`

	Review Review `json:"-" gorm:"foreignKey:ReviewID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Report.
func (Report) TableName() string { return "reports" }
