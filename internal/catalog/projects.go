// Package catalog holds the fixed list of projects applicants may apply to.
package catalog

var projects = []string{
	"AI Data Extraction",
	"Machine Learning Enablement",
	"Genealogy",
	"Natural Language Processing",
	"AI-Enabled Customer Service",
	"Computer Vision",
	"Autonomous Driving Technology",
}

// Projects returns the project names in display order. The slice is a copy.
func Projects() []string {
	out := make([]string, len(projects))
	copy(out, projects)
	return out
}

// IsValid reports whether name is a catalog project. Matching is exact and case-sensitive.
func IsValid(name string) bool {
	for _, p := range projects {
		if p == name {
			return true
		}
	}
	return false
}
