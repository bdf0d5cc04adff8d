// Package diagnostics checks extracted records for missing key fields.
package diagnostics

import "bolx/internal/domain"

// Severity is how much a failed check matters.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Check is a single rule applied to an extracted record.
type Check interface {
	Key() string
	Name() string
	Field() string
	Severity() Severity
	Check(rec *domain.BOLRecord) Result
}

// Result is the outcome of one check.
type Result struct {
	Key      string   `json:"key"`
	Field    string   `json:"field"`
	Passed   bool     `json:"passed"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Registry holds checks in registration order.
type Registry struct {
	checks map[string]Check
	order  []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]Check)}
}

// Register adds a check, replacing any check with the same key.
func (r *Registry) Register(c Check) {
	if _, ok := r.checks[c.Key()]; !ok {
		r.order = append(r.order, c.Key())
	}
	r.checks[c.Key()] = c
}

// Get returns the check for key, or nil if not found.
func (r *Registry) Get(key string) Check {
	return r.checks[key]
}

// All returns every registered check in registration order.
func (r *Registry) All() []Check {
	out := make([]Check, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.checks[k])
	}
	return out
}
