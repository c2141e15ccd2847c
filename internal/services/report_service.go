// Package services – ReportService
//
// This file implements the ReportService, which rolls reviewer ratings up
// into a report snapshot: per-task scores, per-category scores, an overall
// score, and a list of the lowest-scoring items. Generation is a read-mostly
// projection — it never touches evaluations or the review's status — and is
// deterministic: identical stored inputs produce byte-identical report
// contents, so it is safe to invoke repeatedly and concurrently.
//
// The whole read happens inside one transaction, so a single generation sees
// a consistent snapshot; there is deliberately no isolation between two
// generations with writes in between.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
	"github.com/thetangstr/meridian-replit-sub001/internal/scoring"
)

// ReportService generates and serves report snapshots.
type ReportService struct {
	// DB is the database handle used for all report operations.
	DB *gorm.DB
	// LowScoreThreshold is the cut-off below which a task or category is
	// surfaced as an issue.
	LowScoreThreshold float64
}

// TaskScoreEntry is one row of a report's task breakdown.
type TaskScoreEntry struct {
	TaskID     string  `json:"task_id"`
	TaskName   string  `json:"task_name"`
	CategoryID string  `json:"category_id"`
	Doable     *bool   `json:"doable,omitempty"`
	Score      float64 `json:"score"`
}

// CategoryScoreEntry is one row of a report's category breakdown.
type CategoryScoreEntry struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	TaskAverage  float64 `json:"task_average"`
	TaskCount    int     `json:"task_count"`
	Score        float64 `json:"score"`
}

// ReportView is the decoded shape handed to the HTTP layer.
type ReportView struct {
	Report     *domain.Report       `json:"report"`
	Overall    float64              `json:"overall_score"`
	Categories []CategoryScoreEntry `json:"categories"`
	Tasks      []TaskScoreEntry     `json:"tasks"`
	TopIssues  []scoring.Issue      `json:"top_issues"`
}

// Generate computes the rollup for a review and upserts its single report
// row. The only failure for a well-formed store is ErrReviewNotFound;
// missing evaluations degrade to 0 contributions rather than errors.
func (s *ReportService) Generate(ctx context.Context, reviewID string) (*domain.Report, error) {
	var report *domain.Report
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := repo.GetReview(ctx, tx, reviewID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrReviewNotFound
			}
			return err
		}

		cfg, err := repo.GetScoringConfig(ctx, tx)
		if err != nil {
			return err
		}
		taskWeights := TaskWeights(cfg)
		categoryWeights := CategoryWeights(cfg)

		categories, err := repo.ListCategories(ctx, tx)
		if err != nil {
			return err
		}
		tasks, err := repo.ListAllTasks(ctx, tx)
		if err != nil {
			return err
		}
		taskEvals, err := repo.ListTaskEvaluations(ctx, tx, reviewID)
		if err != nil {
			return err
		}
		catEvals, err := repo.ListCategoryEvaluations(ctx, tx, reviewID)
		if err != nil {
			return err
		}

		// Resolve task -> category through the CUJ layer.
		cujCategory := map[string]string{}
		var cujs []domain.Cuj
		if err := tx.WithContext(ctx).Order("id ASC").Find(&cujs).Error; err != nil {
			return err
		}
		for _, c := range cujs {
			cujCategory[c.ID] = c.CategoryID
		}
		taskCategory := map[string]string{}
		taskName := map[string]string{}
		for _, t := range tasks {
			taskCategory[t.ID] = cujCategory[t.CujID]
			taskName[t.ID] = t.Name
		}

		// Per-task scores, grouped per category.
		taskEntries := make([]TaskScoreEntry, 0, len(taskEvals))
		perCategoryScores := map[string][]float64{}
		for _, ev := range taskEvals {
			ratings := scoring.TaskRatings{
				Usability:   ev.UsabilityScore,
				Interaction: nil, // no distinct interaction rating is captured yet
				Visuals:     ev.VisualsScore,
			}
			if ev.Doable != nil {
				ratings.Doable = *ev.Doable
			}
			score := scoring.TaskScore(ratings, taskWeights)
			catID := taskCategory[ev.TaskID]
			taskEntries = append(taskEntries, TaskScoreEntry{
				TaskID:     ev.TaskID,
				TaskName:   taskName[ev.TaskID],
				CategoryID: catID,
				Doable:     ev.Doable,
				Score:      score,
			})
			perCategoryScores[catID] = append(perCategoryScores[catID], score)
		}

		catRatings := map[string]scoring.CategoryRatings{}
		for _, ev := range catEvals {
			catRatings[ev.CategoryID] = scoring.CategoryRatings{
				Responsiveness: ev.ResponsivenessScore,
				Writing:        ev.WritingScore,
				Emotional:      ev.EmotionalScore,
			}
		}

		// Categories are walked in list order (name, id), which is stable
		// for identical inputs.
		categoryEntries := make([]CategoryScoreEntry, 0, len(categories))
		categoryResults := make([]scoring.CategoryResult, 0, len(categories))
		issueCandidates := make([]scoring.Issue, 0, len(taskEntries)+len(categories))
		for _, cat := range categories {
			taskScores := perCategoryScores[cat.ID]
			rollup := scoring.CategoryRollup(taskScores, catRatings[cat.ID], categoryWeights)
			categoryEntries = append(categoryEntries, CategoryScoreEntry{
				CategoryID:   cat.ID,
				CategoryName: cat.Name,
				TaskAverage:  scoring.CategoryScore(taskScores),
				TaskCount:    len(taskScores),
				Score:        rollup,
			})
			categoryResults = append(categoryResults, scoring.CategoryResult{CategoryID: cat.ID, Score: rollup})
			issueCandidates = append(issueCandidates, scoring.Issue{
				Kind: "category", ID: cat.ID, Name: cat.Name, Score: rollup,
			})
		}
		for _, te := range taskEntries {
			issueCandidates = append(issueCandidates, scoring.Issue{
				Kind: "task", ID: te.TaskID, Name: te.TaskName, Score: te.Score,
			})
		}

		overall := scoring.OverallScore(categoryResults, nil)
		issues := scoring.TopIssues(issueCandidates, s.LowScoreThreshold)

		sort.Slice(taskEntries, func(i, j int) bool { return taskEntries[i].TaskID < taskEntries[j].TaskID })

		catJSON, err := json.Marshal(categoryEntries)
		if err != nil {
			return err
		}
		taskJSON, err := json.Marshal(taskEntries)
		if err != nil {
			return err
		}
		issueJSON, err := json.Marshal(issues)
		if err != nil {
			return err
		}

		summary, err := s.summarize(ctx, tx, review, overall, len(categoryEntries), issues)
		if err != nil {
			return err
		}

		report, err = repo.UpsertReport(ctx, tx, reviewID, overall, string(catJSON), string(taskJSON), string(issueJSON), summary)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// summarize builds the one-paragraph report summary. Wording is fixed so two
// generations over identical inputs produce identical text.
func (s *ReportService) summarize(ctx context.Context, db *gorm.DB, review *domain.Review, overall float64, categoryCount int, issues []scoring.Issue) (string, error) {
	car, err := repo.GetCar(ctx, db, review.CarID)
	if err != nil {
		return "", err
	}
	title := cases.Title(language.English)
	label := fmt.Sprintf("%d %s %s", car.Year, title.String(car.Make), title.String(car.Model))
	if len(issues) == 0 {
		return fmt.Sprintf("%s scored %.1f overall across %d categories with no items below %.0f.",
			label, overall, categoryCount, s.LowScoreThreshold), nil
	}
	worst := issues[0]
	return fmt.Sprintf("%s scored %.1f overall across %d categories; %d items fell below %.0f, worst being %s %q at %.1f.",
		label, overall, categoryCount, len(issues), s.LowScoreThreshold, worst.Kind, worst.Name, worst.Score), nil
}

// Get returns the generated report of a review, decoded for display.
// Unpublished reviews are only visible to internal roles; everyone else gets
// ErrReportNotVisible. A review that exists but has no report yet yields
// ErrReportNotFound.
func (s *ReportService) Get(ctx context.Context, reviewID, viewerRole string) (*ReportView, error) {
	review, err := repo.GetReview(ctx, s.DB, reviewID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if !review.IsPublished && !IsInternalRole(viewerRole) {
		return nil, ErrReportNotVisible
	}

	report, err := repo.GetReportByReview(ctx, s.DB, reviewID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	view := &ReportView{Report: report, Overall: report.OverallScore}
	if err := json.Unmarshal([]byte(report.CategoryBreakdown), &view.Categories); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(report.TaskBreakdown), &view.Tasks); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(report.TopIssues), &view.TopIssues); err != nil {
		return nil, err
	}
	return view, nil
}

// IsInternalRole reports whether the identity-service role may see
// unpublished reports.
func IsInternalRole(role string) bool {
	switch role {
	case "internal", "admin":
		return true
	default:
		return false
	}
}
