// Package services defines the business logic of the evaluation engine:
// taxonomy management, scoring configuration, reviewer assignments, review
// lifecycle, evaluation drafts, and report generation. This file centralizes
// the service-level error values so they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; the
// handler layer translates them into HTTP statuses and stable error codes.
package services

import "errors"

// Taxonomy errors.
var (
	// ErrCategoryNotFound indicates that a referenced CUJ category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCujNotFound indicates that a referenced CUJ does not exist.
	ErrCujNotFound = errors.New("cuj not found")

	// ErrTaskNotFound indicates that a referenced task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrVersionNotFound indicates that the taxonomy version id is unknown.
	ErrVersionNotFound = errors.New("taxonomy version not found")

	// ErrNoActiveVersion is returned when a review is created before any
	// taxonomy version has been activated.
	ErrNoActiveVersion = errors.New("no active taxonomy version")
)

// Car and assignment errors.
var (
	// ErrCarNotFound indicates that the car id is unknown.
	ErrCarNotFound = errors.New("car not found")

	// ErrAssignmentExists is returned when the (car, category) pair already
	// has an assigned reviewer. The conflict is independent of which
	// reviewer holds the existing assignment.
	ErrAssignmentExists = errors.New("category on this car is already assigned")

	// ErrAssignmentNotFound indicates that the assignment id is unknown.
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// Review and evaluation errors.
var (
	// ErrReviewNotFound indicates that the review id is unknown.
	ErrReviewNotFound = errors.New("review not found")

	// ErrInvalidStatus is returned for an unknown status value or for the
	// forbidden transition back to not_started.
	ErrInvalidStatus = errors.New("invalid status transition")

	// ErrMediaTooLong is returned when a media reference exceeds the
	// 120-second duration cap.
	ErrMediaTooLong = errors.New("media duration exceeds 120 seconds")

	// ErrEvaluationNotFound indicates that the evaluation a media reference
	// should attach to has not been written yet.
	ErrEvaluationNotFound = errors.New("evaluation not found")
)

// Scoring configuration errors.
var (
	// ErrNegativeWeight is returned when a weight update contains a
	// negative percentage.
	ErrNegativeWeight = errors.New("weights must not be negative")
)

// Report errors.
var (
	// ErrReportNotFound indicates that no report has been generated for the
	// review yet.
	ErrReportNotFound = errors.New("report not found")

	// ErrReportNotVisible is returned when a non-internal viewer requests
	// the report of an unpublished review.
	ErrReportNotVisible = errors.New("report is not published")
)
