package service

import (
	"context"
	"errors"

	"github.com/guttosm/nutriplate/internal/analysis"
	"github.com/guttosm/nutriplate/internal/collector"
	"github.com/guttosm/nutriplate/internal/domain/model"
	"github.com/guttosm/nutriplate/internal/media"
	"github.com/guttosm/nutriplate/internal/metrics"
)

// MealInput is one analysis request as received by a presenter. Image holds
// raw bytes in any supported format, or nil.
type MealInput struct {
	Family model.FamilyComposition
	Text   string
	Image  []byte
}

// MealService analyzes meals.
type MealService interface {
	Analyze(ctx context.Context, in MealInput) (*model.AnalysisResult, error)
}

// MealServiceImpl normalizes the photo and submits a collector form per request.
type MealServiceImpl struct {
	analyzer analysis.Analyzer
	image    media.Options
}

// NewMealService creates a meal service backed by analyzer.
func NewMealService(analyzer analysis.Analyzer, image media.Options) *MealServiceImpl {
	return &MealServiceImpl{
		analyzer: analyzer,
		image:    image,
	}
}

// Analyze returns the analyzer's typed errors unchanged. An image that cannot
// be decoded yields media.ErrUnsupportedImage before any model call.
func (s *MealServiceImpl) Analyze(ctx context.Context, in MealInput) (*model.AnalysisResult, error) {
	form := collector.NewForm()
	form.Family = in.Family.Normalize()
	form.SetText(in.Text)

	if len(in.Image) > 0 {
		normalized, err := media.Normalize(in.Image, s.image)
		if err != nil {
			metrics.RecordImageNormalization("rejected")
			return nil, err
		}
		if normalized.Scaled {
			metrics.RecordImageNormalization("scaled")
		} else {
			metrics.RecordImageNormalization("reencoded")
		}
		form.SetImageBytes(normalized.Data, media.JPEGMIMEType)
	}

	if err := form.Submit(ctx, s.analyzer); err != nil {
		if errors.Is(err, collector.ErrSubmitDisabled) {
			return nil, &analysis.InputError{Message: analysis.MissingInputMessage}
		}
		return nil, err
	}
	return form.Result, nil
}
