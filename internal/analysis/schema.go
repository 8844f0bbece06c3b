package analysis

import (
	"fmt"
	"sort"

	"github.com/guttosm/nutriplate/internal/domain/model"
)

// SchemaType is a JSON Schema primitive type.
type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
	TypeNumber SchemaType = "number"
)

// Schema is a provider-neutral description of the expected reply. It marshals
// to plain JSON Schema; backends convert it to their own representation.
type Schema struct {
	Type             SchemaType         `json:"type"`
	Description      string             `json:"description,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering []string           `json:"-"`
	Items            *Schema            `json:"items,omitempty"`
	Required         []string           `json:"required,omitempty"`
	Enum             []string           `json:"enum,omitempty"`
}

// ResultSchema describes model.AnalysisResult.
func ResultSchema() *Schema {
	number := func(desc string) *Schema { return &Schema{Type: TypeNumber, Description: desc} }
	str := func(desc string) *Schema { return &Schema{Type: TypeString, Description: desc} }

	statuses := make([]string, len(model.GapStatuses))
	for i, s := range model.GapStatuses {
		statuses[i] = string(s)
	}

	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"foodItems": {
				Type: TypeArray,
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"name":             str(""),
						"quantityEstimate": str("e.g., 250g or 1 cup"),
						"calories":         number(""),
						"protein":          number(""),
					},
					PropertyOrdering: []string{"name", "quantityEstimate", "calories", "protein"},
					Required:         []string{"name", "calories", "protein", "quantityEstimate"},
				},
			},
			"totalCalories":    number(""),
			"totalProtein":     number(""),
			"consumptionUnits": number("Calculated total CU based on family members"),
			"intakePerCU": {
				Type: TypeObject,
				Properties: map[string]*Schema{
					"calories": number(""),
					"protein":  number(""),
				},
				PropertyOrdering: []string{"calories", "protein"},
				Required:         []string{"calories", "protein"},
			},
			"standardPerCU": {
				Type: TypeObject,
				Properties: map[string]*Schema{
					"calories": number("Standard requirement per CU"),
					"protein":  number("Standard requirement per CU"),
					"source":   str("Source of standard, e.g., ICMR 2020"),
				},
				PropertyOrdering: []string{"calories", "protein", "source"},
				Required:         []string{"calories", "protein", "source"},
			},
			"gap": {
				Type: TypeObject,
				Properties: map[string]*Schema{
					"caloriesPercent": number("Positive for surplus, negative for deficit"),
					"proteinPercent":  number(""),
					"status":          {Type: TypeString, Enum: statuses},
				},
				PropertyOrdering: []string{"caloriesPercent", "proteinPercent", "status"},
				Required:         []string{"caloriesPercent", "proteinPercent", "status"},
			},
			"summary": str("A friendly, concise summary of the analysis for the user."),
		},
		PropertyOrdering: []string{
			"foodItems", "totalCalories", "totalProtein", "consumptionUnits",
			"intakePerCU", "standardPerCU", "gap", "summary",
		},
		Required: []string{
			"foodItems", "totalCalories", "totalProtein", "consumptionUnits",
			"intakePerCU", "standardPerCU", "gap", "summary",
		},
	}
}

// Validate checks a value produced by encoding/json (maps, slices, float64,
// string, bool, nil) against the schema.
func (s *Schema) Validate(v interface{}) error {
	return s.validate("$", v)
}

func (s *Schema) validate(path string, v interface{}) error {
	switch s.Type {
	case TypeObject:
		obj, ok := v.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%s: expected object, got %s", path, kindOf(v))
		}
		for _, name := range s.Required {
			if _, ok := obj[name]; !ok {
				return fmt.Errorf("%s.%s: required field missing", path, name)
			}
		}
		for _, name := range s.propertyNames() {
			if val, ok := obj[name]; ok {
				if err := s.Properties[name].validate(path+"."+name, val); err != nil {
					return err
				}
			}
		}

	case TypeArray:
		arr, ok := v.([]interface{})
		if !ok {
			return fmt.Errorf("%s: expected array, got %s", path, kindOf(v))
		}
		if s.Items != nil {
			for i, item := range arr {
				if err := s.Items.validate(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
					return err
				}
			}
		}

	case TypeString:
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("%s: expected string, got %s", path, kindOf(v))
		}
		if len(s.Enum) > 0 && !contains(s.Enum, str) {
			return fmt.Errorf("%s: %q is not one of %v", path, str, s.Enum)
		}

	case TypeNumber:
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("%s: expected number, got %s", path, kindOf(v))
		}
	}
	return nil
}

// propertyNames returns the declared ordering, or the sorted keys when none is set.
func (s *Schema) propertyNames() []string {
	if len(s.PropertyOrdering) == len(s.Properties) {
		return s.PropertyOrdering
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
