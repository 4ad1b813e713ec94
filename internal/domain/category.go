package domain

// Category is a marketplace search category.
type Category string

const (
	CategoryAll              Category = "All"
	CategoryElectronics      Category = "Electronics"
	CategoryHomeAndHousehold Category = "HomeAndHousehold"
	CategoryHomeImprovement  Category = "HomeImprovement"
	CategorySmartHome        Category = "SmartHome"
	CategoryOfficeAndSchool  Category = "OfficeAndSchool"
	CategoryAutomotive       Category = "Automotive"
)

// displayNames maps categories to the marketplace's display strings.
var displayNames = map[Category]string{
	CategoryAll:              "All Categories",
	CategoryElectronics:      "Electronics",
	CategoryHomeAndHousehold: "Home & Household Essentials",
	CategoryHomeImprovement:  "Home Improvement",
	CategorySmartHome:        "Smart Home",
	CategoryOfficeAndSchool:  "Office & School Supplies",
	CategoryAutomotive:       "Automotive",
}

// DisplayName returns the human-readable category name.
func (c Category) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

// TaxonomyString returns the taxonomy value used in search query
// parameters. Empty for CategoryAll, which means the parameter is omitted
// and the search spans every category.
func (c Category) TaxonomyString() string {
	if c == CategoryAll {
		return ""
	}
	return c.DisplayName()
}

// Categories returns the concrete categories in scan order. CategoryAll is
// excluded: it is the union of the others and would only duplicate work.
func Categories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryHomeAndHousehold,
		CategoryHomeImprovement,
		CategorySmartHome,
		CategoryOfficeAndSchool,
		CategoryAutomotive,
	}
}
