// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/nutriplate/internal/domain/model"
	"github.com/guttosm/nutriplate/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockMealService struct {
	mock.Mock
}

func (m *MockMealService) Analyze(ctx context.Context, in service.MealInput) (*model.AnalysisResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}
