package analysis

import (
	"encoding/json"

	"github.com/guttosm/nutriplate/internal/domain/model"
)

var resultSchema = ResultSchema()

// Decode parses a model reply into an AnalysisResult. The payload must be a
// single JSON object satisfying ResultSchema; anything else is a ParseError.
func Decode(raw string) (*model.AnalysisResult, error) {
	var generic interface{}
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := resultSchema.Validate(generic); err != nil {
		return nil, &ParseError{Err: err}
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, &ParseError{Err: err}
	}
	if result.FoodItems == nil {
		result.FoodItems = []model.NutritionItem{}
	}
	return &result, nil
}
