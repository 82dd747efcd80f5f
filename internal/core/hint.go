package core

// Hint names the icon a front end shows next to a category.
type Hint string

const (
	HintSalary        Hint = "indian-rupee"
	HintFreelance     Hint = "briefcase"
	HintInvestment    Hint = "trending-up"
	HintBusiness      Hint = "building"
	HintGift          Hint = "gift"
	HintOtherIncome   Hint = "plus"
	HintFood          Hint = "utensils"
	HintTransport     Hint = "car"
	HintShopping      Hint = "shopping-bag"
	HintEntertainment Hint = "film"
	HintBills         Hint = "zap"
	HintHealthcare    Hint = "heart"
	HintTravel        Hint = "plane"
	HintEducation     Hint = "graduation-cap"
	HintOther         Hint = "more-horizontal"
)

var hints = map[string]Hint{
	"Salary":            HintSalary,
	"Freelance":         HintFreelance,
	"Investment":        HintInvestment,
	"Business":          HintBusiness,
	"Gift":              HintGift,
	"Other Income":      HintOtherIncome,
	"Food & Dining":     HintFood,
	"Transportation":    HintTransport,
	"Shopping":          HintShopping,
	"Entertainment":     HintEntertainment,
	"Bills & Utilities": HintBills,
	"Healthcare":        HintHealthcare,
	"Travel":            HintTravel,
	"Education":         HintEducation,
	"Other Expense":     HintOther,
}

// CategoryHint returns the presentation hint for category, HintOther when
// the category is not recognised.
func CategoryHint(category string) Hint {
	if h, ok := hints[category]; ok {
		return h
	}
	return HintOther
}
