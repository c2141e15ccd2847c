// Package scoring implements the pure score rollup: task score from weighted
// rating components, category score from task scores plus category-level
// ratings, and the overall score across categories. Functions here perform no
// I/O and never return errors; missing ratings degrade to a 0 contribution so
// a result exists for any well-typed input.
package scoring

import "sort"

// TaskWeights are the percentage weights of the task-level components.
type TaskWeights struct {
	Doable      float64 `json:"doable"`
	Usability   float64 `json:"usability"`
	Interaction float64 `json:"interaction"`
	Visuals     float64 `json:"visuals"`
}

// CategoryWeights are the percentage weights of the category-level components.
// TaskAverage weighs the mean of the category's task scores; the remaining
// three weigh the reviewer's category-level ratings.
type CategoryWeights struct {
	TaskAverage    float64 `json:"task_average"`
	Responsiveness float64 `json:"responsiveness"`
	Writing        float64 `json:"writing"`
	Emotional      float64 `json:"emotional"`
}

// DefaultTaskWeights returns the documented default task weight split.
func DefaultTaskWeights() TaskWeights {
	return TaskWeights{Doable: 43.75, Usability: 18.75, Interaction: 18.75, Visuals: 18.75}
}

// DefaultCategoryWeights returns the documented default category weight split.
func DefaultCategoryWeights() CategoryWeights {
	return CategoryWeights{TaskAverage: 60, Responsiveness: 15, Writing: 15, Emotional: 10}
}

// TaskRatings is the scoring view of one task evaluation. Ratings are
// normalized 0..100; nil means "not yet rated" and contributes 0.
type TaskRatings struct {
	Doable      bool
	Usability   *float64
	Interaction *float64
	Visuals     *float64
}

// CategoryRatings is the scoring view of one category evaluation. Nil ratings
// contribute 0, same as task ratings.
type CategoryRatings struct {
	Responsiveness *float64
	Writing        *float64
	Emotional      *float64
}

// CategoryResult pairs a category with its rolled-up score.
type CategoryResult struct {
	CategoryID string  `json:"category_id"`
	Score      float64 `json:"score"`
}

// CategoryWeight is an optional per-category weight for OverallScore.
type CategoryWeight struct {
	CategoryID string  `json:"category_id"`
	Weight     float64 `json:"weight"`
}

// component converts one nullable 0..100 rating into its weighted
// contribution. A nil rating counts as 0: drafts and skipped ratings drag the
// score down rather than being ignored.
func component(rating *float64, weight float64) float64 {
	if rating == nil {
		return 0
	}
	return *rating / 100 * weight
}

// TaskScore computes the weighted score of a single task evaluation.
//
// The doable component is all-or-nothing: it contributes the full doable
// weight when the task is doable and 0 otherwise. Rating components each
// contribute rating/100 * weight. The result is the plain sum of the active
// components and is deliberately not re-normalized, so weight sets that do
// not sum to 100 produce scores outside 0..100.
func TaskScore(r TaskRatings, w TaskWeights) float64 {
	s := component(r.Usability, w.Usability) +
		component(r.Interaction, w.Interaction) +
		component(r.Visuals, w.Visuals)
	if r.Doable {
		s += w.Doable
	}
	return s
}

// CategoryScore is the unweighted arithmetic mean of task scores. An empty
// list yields 0, never NaN.
func CategoryScore(taskScores []float64) float64 {
	if len(taskScores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range taskScores {
		sum += s
	}
	return sum / float64(len(taskScores))
}

// CategoryRollup combines the mean of a category's task scores with the
// reviewer's category-level ratings under the category weight set. The task
// average participates as a 0..100 rating weighted by w.TaskAverage; the
// remaining components follow the same rating/100 * weight rule as TaskScore,
// with nil ratings contributing 0.
func CategoryRollup(taskScores []float64, r CategoryRatings, w CategoryWeights) float64 {
	avg := CategoryScore(taskScores)
	return avg/100*w.TaskAverage +
		component(r.Responsiveness, w.Responsiveness) +
		component(r.Writing, w.Writing) +
		component(r.Emotional, w.Emotional)
}

// OverallScore aggregates category scores into a single number.
//
// With a nil weight list every category contributes equally (plain mean).
// With weights supplied, each category contributes score * weight/100; the
// weights are assumed caller-normalized and are not checked for summing to
// 100. A category missing from the weight list contributes 0 weight, which is
// the documented fallback rather than an error. An empty score list yields 0.
func OverallScore(scores []CategoryResult, weights []CategoryWeight) float64 {
	if len(scores) == 0 {
		return 0
	}
	if weights == nil {
		var sum float64
		for _, cs := range scores {
			sum += cs.Score
		}
		return sum / float64(len(scores))
	}
	byCategory := make(map[string]float64, len(weights))
	for _, w := range weights {
		byCategory[w.CategoryID] = w.Weight
	}
	var total float64
	for _, cs := range scores {
		total += cs.Score * byCategory[cs.CategoryID] / 100
	}
	return total
}

// Issue is one low-scoring task or category surfaced in a report.
type Issue struct {
	Kind  string  `json:"kind"` // "task" or "category"
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// TopIssues filters candidates below the threshold and orders them ascending
// by score, most severe first. Ties break on kind then id so the output is
// deterministic for identical inputs.
func TopIssues(candidates []Issue, threshold float64) []Issue {
	out := make([]Issue, 0, len(candidates))
	for _, c := range candidates {
		if c.Score < threshold {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ID < out[j].ID
	})
	return out
}
