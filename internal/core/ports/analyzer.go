package ports

import (
	"context"

	"github.com/vigilcam/portal/internal/core/domain"
)

// Analyzer runs an analysis over the media found at videoURL.
type Analyzer interface {
	Analyze(ctx context.Context, videoURL string) (*domain.AnalysisResult, error)
}
