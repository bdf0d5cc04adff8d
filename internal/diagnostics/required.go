package diagnostics

import (
	"fmt"
	"strings"

	"bolx/internal/domain"
)

// requiredField checks that a record column is non-empty.
type requiredField struct {
	field    string
	name     string
	severity Severity
}

func (c *requiredField) Key() string        { return "required." + c.field }
func (c *requiredField) Name() string       { return c.name }
func (c *requiredField) Field() string      { return c.field }
func (c *requiredField) Severity() Severity { return c.severity }

func (c *requiredField) Check(rec *domain.BOLRecord) Result {
	present := strings.TrimSpace(rec.Strings()[c.field]) != ""
	msg := fmt.Sprintf("%s is present", c.name)
	if !present {
		msg = fmt.Sprintf("%s is missing", c.name)
	}
	return Result{
		Key:      c.Key(),
		Field:    c.field,
		Passed:   present,
		Severity: c.severity,
		Message:  msg,
	}
}

// RequiredField returns a check that fails when field is empty. field must be
// one of domain.RecordColumns.
func RequiredField(field, name string, severity Severity) Check {
	return &requiredField{field: field, name: name, severity: severity}
}

// DefaultRegistry returns the built-in key-field checks.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range []Check{
		RequiredField("bol_number", "B/L number", SeverityError),
		RequiredField("shipper_name", "Shipper name", SeverityError),
		RequiredField("consignee_name", "Consignee name", SeverityError),
		RequiredField("vessel_name", "Vessel name", SeverityError),
		RequiredField("port_of_load", "Port of loading", SeverityError),
		RequiredField("port_of_discharge", "Port of discharge", SeverityError),
		RequiredField("voyage_number", "Voyage number", SeverityWarning),
		RequiredField("date_of_issue", "Date of issue", SeverityWarning),
		RequiredField("gross_weight", "Gross weight", SeverityWarning),
		RequiredField("description_of_goods", "Description of goods", SeverityWarning),
	} {
		r.Register(c)
	}
	return r
}
