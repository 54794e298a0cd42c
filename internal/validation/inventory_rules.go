package validation

import "math"

// ClassificationRules validates the add-classification form.
func ClassificationRules() RuleSet {
	return RuleSet{
		Body("classification_name").Trim().Escape().
			Required("Please provide a classification name.").
			Alphanumeric("Classification name cannot contain spaces or special characters."),
	}
}

const (
	MinYear = 1900
	MaxYear = 2100
)

// InventoryRules validates the add and edit inventory forms.
func InventoryRules() RuleSet {
	return RuleSet{
		Body("classification_id").Trim().
			Required("Please select a classification.").
			IntRange(1, math.MaxInt32, "Please select a classification."),
		Body("inv_make").Trim().Escape().
			Required("Please provide the vehicle make."),
		Body("inv_model").Trim().Escape().
			Required("Please provide the vehicle model."),
		Body("inv_year").Trim().
			Required("Please provide a valid year.").
			IntRange(MinYear, MaxYear, "Please provide a valid year."),
		Body("inv_description").Trim().Escape().
			Required("Please provide a description."),
		Body("inv_price").Trim().
			Required("Please provide a valid price.").
			FloatMin(0, "Please provide a valid price."),
		Body("inv_miles").Trim().
			Required("Please provide valid miles.").
			FloatMin(0, "Please provide valid miles."),
		Body("inv_color").Trim().Escape().
			Required("Please provide the vehicle color."),
	}
}
