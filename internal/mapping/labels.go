package mapping

import "strings"

// Human-readable labels for the enum short codes the forms submit. Unknown
// codes pass through unchanged so a new frontend option degrades to its raw
// value instead of disappearing.
var planLabels = map[string]string{
	"complete-system": "Complete System",
	"growth-engine":   "Growth Engine",
	"content-engine":  "Content Engine",
	"starter":         "Starter",
}

var businessTypeLabels = map[string]string{
	"creator":        "Content Creator",
	"agency":         "Marketing Agency",
	"coach":          "Coach / Consultant",
	"ecommerce":      "E-commerce Brand",
	"saas":           "SaaS Company",
	"local-business": "Local Business",
}

var labelTables = map[string]map[string]string{
	FieldSelectedPlan: planLabels,
	FieldBusinessType: businessTypeLabels,
}

// labelFor resolves an enum code to its display label for the given internal
// field, falling back to the raw code.
func labelFor(field, code string) string {
	table, ok := labelTables[field]
	if !ok {
		return code
	}
	if label, ok := table[strings.ToLower(code)]; ok {
		return label
	}
	return code
}
