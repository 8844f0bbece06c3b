package analysis

import (
	"fmt"

	"github.com/guttosm/nutriplate/internal/domain/model"
)

// Daily reference for the ICMR reference man (moderate activity), per CU.
const (
	ReferenceCaloriesPerCU = 2730
	ReferenceProteinPerCU  = 54
)

// InstructionBlock states the CU coefficients and the family counts.
func InstructionBlock(family model.FamilyComposition) string {
	return fmt.Sprintf(`Calculate Consumption Units (CU) using these approximate coefficients based on Indian ICMR standards:
  - Adult Male (Moderate Work): %.1f CU
  - Adult Female (Moderate Work): %.1f CU
  - Child (Average): %.1f CU

  Family Composition provided:
  - Adult Males: %d
  - Adult Females: %d
  - Children: %d`,
		model.AdultMaleCU, model.AdultFemaleCU, model.ChildCU,
		family.AdultMales, family.AdultFemales, family.Children,
	)
}

// SystemInstruction describes the analysis task for the model.
func SystemInstruction(family model.FamilyComposition) string {
	return fmt.Sprintf(`You are an expert nutritionist specializing in Indian diets, familiar with Gopalan's "Nutritive Value of Indian Foods" and ICMR (Indian Council of Medical Research) standards.

Your task:
1. Identify the food items from the image or text description.
2. Estimate the cooked quantities. If text provides raw quantities (e.g., "250g raw rice"), convert them to cooked values or calculate nutrition directly from raw values if more accurate.
3. Calculate Total Calories (Kcal) and Protein (g) for the entire meal described/shown.
4. %s
5. Calculate the Intake per CU (Total / Total CU).
6. Compare Intake per CU against the ICMR Reference Man (Moderate Activity): Approx %d Kcal/day and %dg Protein/day (or use the most recent ICMR 2020 data you have access to). Note: If the input is just ONE meal (e.g., lunch), assume it should cover approx 35-40%% of daily needs, or normalize your comparison logic explicitly in the summary. However, for the numbers 'standardPerCU', return the DAILY standard for reference.
7. Return the result strictly in JSON format.`,
		InstructionBlock(family), ReferenceCaloriesPerCU, ReferenceProteinPerCU,
	)
}
