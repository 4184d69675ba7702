package registry

// Report is the machine-readable inventory printed by the CLI and served
// by the registry API. Issues is never null.
type Report struct {
	Count   int       `json:"count"`
	Entries []Summary `json:"entries"`
	Issues  []Issue   `json:"issues"`
}

// Inventory lists every entry and runs the validator.
func (r *Registry) Inventory() Report {
	issues := r.Validate()
	if issues == nil {
		issues = []Issue{}
	}
	return Report{
		Count:   r.Len(),
		Entries: r.Entries(),
		Issues:  issues,
	}
}
