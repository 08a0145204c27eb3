package catalog

import (
	"slices"
	"strings"
)

// Catalog holds the static reference lists consumed by the order form
// and the directory query builders. Use the accessor methods; they return copies.
type Catalog struct {
	branches        []string
	salesPersons    map[string][]string
	categories      []string
	uoms            []string
	categoryAliases map[string]string
}

// New creates a Catalog. Branches and categories are sorted, inputs are copied.
func New(
	branches []string,
	salesPersons map[string][]string,
	categories []string,
	uoms []string,
	categoryAliases map[string]string,
) *Catalog {
	c := &Catalog{
		branches:        slices.Clone(branches),
		salesPersons:    make(map[string][]string, len(salesPersons)),
		categories:      slices.Clone(categories),
		uoms:            slices.Clone(uoms),
		categoryAliases: make(map[string]string, len(categoryAliases)),
	}
	slices.Sort(c.branches)
	slices.Sort(c.categories)
	for branch, roster := range salesPersons {
		c.salesPersons[branch] = slices.Clone(roster)
	}
	for label, code := range categoryAliases {
		c.categoryAliases[label] = code
	}

	return c
}

// Default returns the reference lists used by the sales offices.
func Default() *Catalog {
	return New(
		[]string{
			"Ahmedabad", "Banglore", "Delhi", "Jaipur", "Kolkata",
			"Ludhiana", "Mumbai", "Surat", "Tirupur", "Ulhasnagar",
		},
		map[string][]string{
			"Mumbai":     {"Amit Korgaonkar", "Santosh Pachratkar", "Rakesh Jain", "Kamlesh Sutar", "Pradeep Jadhav", "Mumbai HO"},
			"Ulhasnagar": {"Shiv Ratan", "Viay Sutar", "Ulasnagar HO"},
			"Kolkata":    {"Rajesh Jain", "Kolkata HO"},
			"Jaipur":     {"Durgesh Bhati", "Jaipur HO"},
			"Delhi":      {"Lalit Maroo", "Anish Jain", "Suresh Nautiyal", "Rahul Vashishtha", "Mohit Sharma", "Delhi HO"},
			"Banglore":   {"Balasubramanyam", "Tarachand", "Bangalore HO"},
			"Tirupur":    {"Alexander Pushkin", "Subramanian", "Mani Maran", "Tirupur HO"},
			"Ahmedabad":  {"ravindra kaushik", "Ahmedabad HO"},
			"Surat":      {"Anil Marthe", "Raghuveer Darbar", "Sailesh Pathak", "Vanraj Darbar", "Surat HO"},
			"Ludhiana":   {"Ludhiana HO"},
		},
		[]string{
			"CKU", "CRO", "CUP", "ELASTIC", "EMBROIDARY",
			"EYE_N_HOOK", "PRINTING", "TLU", "VAU", "WARP(UDHANA)",
		},
		[]string{"INCH", "KG", "MRT", "PCS", "PKT", "ROLL", "YARD"},
		map[string]string{
			"CKU":          "cku",
			"CRO":          "cro",
			"CUP":          "cup",
			"ELASTIC":      "elastic",
			"EMBROIDARY":   "embroidary",
			"EYE_N_HOOK":   "eye_n_hook",
			"PRINTING":     "printing",
			"TLU":          "tlu",
			"VAU":          "vau",
			"WARP(UDHANA)": "warp",
		},
	)
}

// Branches returns the sorted branch names.
func (c *Catalog) Branches() []string {
	return slices.Clone(c.branches)
}

// SalesPersons returns the roster of a branch, nil for an unknown branch.
func (c *Catalog) SalesPersons(branch string) []string {
	return slices.Clone(c.salesPersons[branch])
}

// Categories returns the sorted category labels.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// UOMs returns the units of measure.
func (c *Catalog) UOMs() []string {
	return slices.Clone(c.uoms)
}

// HasBranch reports whether the branch is configured.
func (c *Catalog) HasBranch(branch string) bool {
	return slices.Contains(c.branches, branch)
}

// HasSalesPerson reports whether the salesperson is on the branch roster.
func (c *Catalog) HasSalesPerson(branch, salesPerson string) bool {
	return slices.Contains(c.salesPersons[branch], salesPerson)
}

// CategoryCode maps a category label to its backend code.
// Labels without an alias fall back to their lowercase form.
func (c *Catalog) CategoryCode(label string) string {
	if code, ok := c.categoryAliases[label]; ok {
		return code
	}

	return strings.ToLower(label)
}
