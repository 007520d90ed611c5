package entities

// Severity of a rule violation
type Severity string

// Violation severities
const (
	SeverityBlock Severity = "block"
	SeverityWarn  Severity = "warn"
)

// Violation is one rule the proposed data breaks
type Violation struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Citation string   `json:"citation,omitempty"`
	Facet    Facet    `json:"facet,omitempty"`
	// AlwaysBlocking marks structurally impossible states that block in every mode
	AlwaysBlocking bool `json:"alwaysBlocking,omitempty"`
}

// Blocks reports whether the violation prevents a commit under mode
func (v Violation) Blocks(mode Mode) bool {
	if v.AlwaysBlocking {
		return true
	}
	return mode == ModeBalanced && v.Severity == SeverityBlock
}

// ValidationResult is what the ruleset returns for a proposed facet
type ValidationResult struct {
	LegalChoices []string    `json:"legalChoices"`
	Violations   []Violation `json:"violations"`
}

// Blocking returns the violations that prevent a commit under mode
func (r *ValidationResult) Blocking(mode Mode) []Violation {
	if r == nil {
		return nil
	}
	var out []Violation
	for _, v := range r.Violations {
		if v.Blocks(mode) {
			out = append(out, v)
		}
	}
	return out
}

// Advisory returns the violations that are shown but do not block under mode
func (r *ValidationResult) Advisory(mode Mode) []Violation {
	if r == nil {
		return nil
	}
	var out []Violation
	for _, v := range r.Violations {
		if !v.Blocks(mode) {
			out = append(out, v)
		}
	}
	return out
}

// HasBlocking is shorthand for len(Blocking(mode)) > 0
func (r *ValidationResult) HasBlocking(mode Mode) bool {
	return len(r.Blocking(mode)) > 0
}

// Merge appends other's violations and keeps the receiver's legal choices
// unless it has none.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
	if len(r.LegalChoices) == 0 {
		r.LegalChoices = other.LegalChoices
	}
}
