// Package moderation defines the contract of the review moderation gate:
// an Evaluator turns free text into a Verdict with per-category scores.
package moderation

import (
	"context"
	"net/http"

	apperrors "github.com/unical-dimes/professors/internal/shared/errors"
)

type Category string

const (
	CategoryUnsupportedLanguage Category = "UNSUPPORTED_LANGUAGE"
	CategoryOffensiveLanguage   Category = "OFFENSIVE_LANGUAGE"
	CategoryPersonalAttack      Category = "PERSONAL_ATTACK"
	CategoryIrrelevantContent   Category = "IRRELEVANT_CONTENT"
	CategorySafe                Category = "SAFE"
)

// RiskCategories lists the scored risks in message priority order.
var RiskCategories = []Category{
	CategoryUnsupportedLanguage,
	CategoryOffensiveLanguage,
	CategoryPersonalAttack,
	CategoryIrrelevantContent,
}

// Verdict is produced fresh for every evaluation.
type Verdict struct {
	Allowed        bool                 `json:"allowed"`
	BlockedReasons []Category           `json:"blocked_reasons"`
	Scores         map[Category]float64 `json:"scores"`
	ModelVersion   string               `json:"model_version"`
	Message        string               `json:"message"`
	Suggestion     *string              `json:"suggestion,omitempty"`
}

// Reasons returns the blocked categories as plain strings.
func (v Verdict) Reasons() []string {
	out := make([]string, len(v.BlockedReasons))
	for i, c := range v.BlockedReasons {
		out[i] = string(c)
	}
	return out
}

// ScoreMap returns the scores keyed by plain strings.
func (v Verdict) ScoreMap() map[string]float64 {
	out := make(map[string]float64, len(v.Scores))
	for c, s := range v.Scores {
		out[string(c)] = s
	}
	return out
}

// Input is what the gate looks at: the review text plus the names of the
// teacher (subject) and course (topic) it is about.
type Input struct {
	Text        string
	SubjectName string
	TopicName   string
}

// Evaluator is the stable contract; implementations must be deterministic
// and safe for concurrent use.
type Evaluator interface {
	Evaluate(ctx context.Context, in Input) Verdict
}

// BlockedError carries the verdict of a rejected review.
type BlockedError struct {
	Verdict Verdict
}

func NewBlockedError(v Verdict) *BlockedError {
	return &BlockedError{Verdict: v}
}

func (e *BlockedError) Error() string {
	return "moderation blocked: " + e.Verdict.Message
}

// Unwrap exposes the AppError so the response layer maps it to 400.
func (e *BlockedError) Unwrap() error {
	return &apperrors.AppError{
		Type:    apperrors.ErrorTypeModerationBlocked,
		Message: e.Verdict.Message,
		Code:    http.StatusBadRequest,
	}
}
