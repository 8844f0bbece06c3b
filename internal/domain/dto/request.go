// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"strings"

	"github.com/guttosm/nutriplate/internal/domain/model"
)

// FamilyRequest carries the household counts of an analysis request.
//
// @Description Family members eating the meal
type FamilyRequest struct {
	AdultMales   int `json:"adultMales" example:"1" minimum:"0"`
	AdultFemales int `json:"adultFemales" example:"1" minimum:"0"`
	Children     int `json:"children" example:"1" minimum:"0"`
} // @name FamilyRequest

// AnalyzeRequest represents the JSON request body for the analysis endpoint.
//
// At least one of Text or Image must be present. Image is a data URL
// (data:image/png;base64,...) or bare base64.
//
// @Description Request to analyze a family meal
// @Example {"family": {"adultMales": 1, "adultFemales": 1, "children": 1}, "text": "250g rice, 100g moong dal"}
type AnalyzeRequest struct {
	// Family defaults to one adult male, one adult female and one child when omitted.
	Family *FamilyRequest `json:"family"`
	// Text is a free-form description of the meal.
	Text string `json:"text" example:"250g rice, 100g moong dal"`
	// Image is an optional photo of the plate.
	Image string `json:"image" example:"data:image/jpeg;base64,/9j/4AAQSkZJRg..."`
} // @name AnalyzeRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrInvalidFamily is returned when a family count is negative.
	ErrInvalidFamily = &ValidationError{
		Field:   "family",
		Message: "counts must be zero or positive integers",
	}
)

// Validate performs custom validation on the request.
// Returns an error if validation fails, nil otherwise.
func (r *AnalyzeRequest) Validate() error {
	if r.Family == nil {
		return nil
	}
	if r.Family.AdultMales < 0 || r.Family.AdultFemales < 0 || r.Family.Children < 0 {
		return ErrInvalidFamily
	}
	return nil
}

// FamilyComposition returns the requested family or the default seed.
func (r *AnalyzeRequest) FamilyComposition() model.FamilyComposition {
	if r.Family == nil {
		return model.DefaultFamily()
	}
	return model.FamilyComposition{
		AdultMales:   r.Family.AdultMales,
		AdultFemales: r.Family.AdultFemales,
		Children:     r.Family.Children,
	}
}

// HasImage reports whether an image value was sent.
func (r *AnalyzeRequest) HasImage() bool {
	return strings.TrimSpace(r.Image) != ""
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
