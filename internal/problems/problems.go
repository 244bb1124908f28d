// Package problems serves the problem catalog: prompt, difficulty, sample
// test cases shown to clients and hidden test cases used only for grading.
package problems

import (
	"context"
	"errors"

	"github.com/Praveenkumar76/skypad-backend/internal/models"
)

var ErrProblemNotFound = errors.New("problem not found")

type Problem struct {
	ProblemID   string            `bson:"problem_id" json:"problemId"`
	Title       string            `bson:"title" json:"title"`
	Difficulty  string            `bson:"difficulty" json:"difficulty"`
	Prompt      string            `bson:"prompt" json:"prompt"`
	SampleTests []models.TestCase `bson:"sample_tests" json:"sampleTests"`
	HiddenTests []models.TestCase `bson:"hidden_tests" json:"-"`
}

// Snapshot strips hidden tests for client responses.
func (p *Problem) Snapshot() models.ProblemSnapshot {
	return models.ProblemSnapshot{
		ProblemID:   p.ProblemID,
		Title:       p.Title,
		Difficulty:  p.Difficulty,
		Prompt:      p.Prompt,
		SampleTests: p.SampleTests,
	}
}

// Store is the read-only catalog interface the orchestrator consumes.
type Store interface {
	GetProblem(ctx context.Context, problemID string) (*Problem, error)
}
