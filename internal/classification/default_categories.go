package classification

// DefaultCategories returns the sheep type buckets used when the config file names none.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Full Wool", Pattern: `^\s*full[\s-]*wool`},
		{Name: "Second Shear", Pattern: `^\s*(second|2nd)[\s-]*shear`},
		{Name: "Lambs", Pattern: `^\s*lambs?\b`},
		{Name: "Hoggets", Pattern: `^\s*hoggets?\b`},
		{Name: "Ewes", Pattern: `^\s*ewes?\b`},
		{Name: "Wethers", Pattern: `^\s*wethers?\b`},
		{Name: "Rams", Pattern: `^\s*rams?\b`},
		// Crutching rows are often written "crutching ewes", so check them first.
		{Name: "Crutching", Pattern: `crutch`, Priority: 10},
	}
}
