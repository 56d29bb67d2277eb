// Package analysis holds Analyzer implementations.
package analysis

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/vigilcam/portal/internal/core/domain"
)

const (
	DefaultGraphURL = "/graphs/sample.png"
	minFrames       = 50
	frameSpread     = 100
)

// Simulated returns fabricated results. It stands in for a real analysis
// engine and performs no processing of the referenced media.
type Simulated struct {
	mu       sync.Mutex
	rng      *rand.Rand
	graphURL string
}

// NewSimulated returns a Simulated analyzer. src may be nil for a randomly
// seeded source.
func NewSimulated(graphURL string, src rand.Source) *Simulated {
	if graphURL == "" {
		graphURL = DefaultGraphURL
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Simulated{rng: rand.New(src), graphURL: graphURL}
}

func (s *Simulated) Analyze(ctx context.Context, _ string) (*domain.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	score := s.rng.Float64()
	frames := minFrames + s.rng.IntN(frameSpread)
	s.mu.Unlock()

	return &domain.AnalysisResult{
		Status:         domain.AnalysisCompleted,
		AverageScore:   score,
		FramesAnalyzed: frames,
		GraphURL:       s.graphURL,
	}, nil
}
