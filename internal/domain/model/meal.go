// Package model defines the core domain entities for the meal analysis service.
package model

import "math"

// Consumption unit coefficients relative to a reference adult male (ICMR).
const (
	AdultMaleCU   = 1.0
	AdultFemaleCU = 0.8
	ChildCU       = 0.6
)

// FamilyComposition describes who shares the meal.
//
// @Description Family members eating the meal, used for consumption unit normalization
// @Example {"adultMales": 1, "adultFemales": 1, "children": 1}
type FamilyComposition struct {
	AdultMales   int `json:"adultMales" example:"1" minimum:"0"`
	AdultFemales int `json:"adultFemales" example:"1" minimum:"0"`
	Children     int `json:"children" example:"1" minimum:"0"`
} // @name FamilyComposition

// DefaultFamily returns the seed composition shown before any user input.
func DefaultFamily() FamilyComposition {
	return FamilyComposition{AdultMales: 1, AdultFemales: 1, Children: 1}
}

// ConsumptionUnits returns 1.0*M + 0.8*F + 0.6*C.
func (f FamilyComposition) ConsumptionUnits() float64 {
	return AdultMaleCU*float64(f.AdultMales) +
		AdultFemaleCU*float64(f.AdultFemales) +
		ChildCU*float64(f.Children)
}

// Members returns the total head count.
func (f FamilyComposition) Members() int {
	return f.AdultMales + f.AdultFemales + f.Children
}

// Normalize clamps negative counts to zero.
func (f FamilyComposition) Normalize() FamilyComposition {
	return FamilyComposition{
		AdultMales:   max(f.AdultMales, 0),
		AdultFemales: max(f.AdultFemales, 0),
		Children:     max(f.Children, 0),
	}
}

// NutritionItem is one identified food item.
//
// @Description Food item identified by the model
type NutritionItem struct {
	Name             string  `json:"name" example:"Rice"`
	QuantityEstimate string  `json:"quantityEstimate" example:"250g"`
	Calories         float64 `json:"calories" example:"325"`
	Protein          float64 `json:"protein" example:"6"`
} // @name NutritionItem

// Nutrients pairs an energy and a protein value.
type Nutrients struct {
	Calories float64 `json:"calories" example:"135.4"`
	Protein  float64 `json:"protein" example:"2.5"`
} // @name Nutrients

// Standard is the daily reference requirement per consumption unit.
type Standard struct {
	Calories float64 `json:"calories" example:"2730"`
	Protein  float64 `json:"protein" example:"54"`
	Source   string  `json:"source" example:"ICMR 2020"`
} // @name Standard

// GapStatus classifies intake against the standard.
type GapStatus string

const (
	GapSurplus  GapStatus = "Surplus"
	GapDeficit  GapStatus = "Deficit"
	GapAdequate GapStatus = "Adequate"
)

// GapStatuses lists every accepted status, in schema order.
var GapStatuses = []GapStatus{GapSurplus, GapDeficit, GapAdequate}

// Valid reports whether s is one of the enumerated statuses.
func (s GapStatus) Valid() bool {
	switch s {
	case GapSurplus, GapDeficit, GapAdequate:
		return true
	}
	return false
}

// Gap is the signed percentage difference between intake and standard.
// Negative values are a deficit, positive values a surplus.
type Gap struct {
	CaloriesPercent float64   `json:"caloriesPercent" example:"-95"`
	ProteinPercent  float64   `json:"proteinPercent" example:"-95"`
	Status          GapStatus `json:"status" enums:"Surplus,Deficit,Adequate" example:"Deficit"`
} // @name Gap

// AnalysisResult is the structured reply of the meal analysis model.
//
// @Description Nutritional analysis of a family meal
type AnalysisResult struct {
	FoodItems        []NutritionItem `json:"foodItems"`
	TotalCalories    float64         `json:"totalCalories" example:"325"`
	TotalProtein     float64         `json:"totalProtein" example:"6"`
	ConsumptionUnits float64         `json:"consumptionUnits" example:"2.4"`
	IntakePerCU      Nutrients       `json:"intakePerCU"`
	StandardPerCU    Standard        `json:"standardPerCU"`
	Gap              Gap             `json:"gap"`
	Summary          string          `json:"summary" example:"This meal covers a small share of the daily needs."`
} // @name AnalysisResult

// Discrepancy describes a remote figure that does not match local arithmetic.
type Discrepancy struct {
	Field    string  `json:"field"`
	Reported float64 `json:"reported"`
	Expected float64 `json:"expected"`
}

// discrepancyTolerance is the relative error accepted before a figure is reported.
const discrepancyTolerance = 0.05

// Discrepancies recomputes the consumption units and per-CU intake locally and
// returns the fields where the reported value differs by more than 5%.
// The result is informational; the reported figures are never rewritten.
func (r *AnalysisResult) Discrepancies(family FamilyComposition) []Discrepancy {
	var out []Discrepancy

	cu := family.ConsumptionUnits()
	if differs(r.ConsumptionUnits, cu) {
		out = append(out, Discrepancy{Field: "consumptionUnits", Reported: r.ConsumptionUnits, Expected: cu})
	}
	if cu <= 0 {
		return out
	}

	if want := r.TotalCalories / cu; differs(r.IntakePerCU.Calories, want) {
		out = append(out, Discrepancy{Field: "intakePerCU.calories", Reported: r.IntakePerCU.Calories, Expected: want})
	}
	if want := r.TotalProtein / cu; differs(r.IntakePerCU.Protein, want) {
		out = append(out, Discrepancy{Field: "intakePerCU.protein", Reported: r.IntakePerCU.Protein, Expected: want})
	}
	return out
}

func differs(reported, expected float64) bool {
	if expected == 0 {
		return math.Abs(reported) > discrepancyTolerance
	}
	return math.Abs(reported-expected)/math.Abs(expected) > discrepancyTolerance
}
