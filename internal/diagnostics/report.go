package diagnostics

import "bolx/internal/domain"

// Status summarizes a report.
type Status string

const (
	StatusValid   Status = "valid"
	StatusWarning Status = "warning"
	StatusInvalid Status = "invalid"
)

// Report is the diagnostic outcome for one record.
type Report struct {
	Status   Status   `json:"status"`
	Coverage float64  `json:"coverage"`
	Missing  []string `json:"missing"`
	Results  []Result `json:"results"`
}

// Run applies every check to rec. A record whose extraction failed is always
// invalid. Coverage is the share of passed checks.
func (r *Registry) Run(rec *domain.BOLRecord) Report {
	report := Report{Status: StatusValid, Missing: []string{}, Results: []Result{}}
	passed := 0
	for _, c := range r.All() {
		res := c.Check(rec)
		report.Results = append(report.Results, res)
		if res.Passed {
			passed++
			continue
		}
		report.Missing = append(report.Missing, res.Field)
		switch {
		case res.Severity == SeverityError:
			report.Status = StatusInvalid
		case report.Status != StatusInvalid:
			report.Status = StatusWarning
		}
	}
	if n := len(report.Results); n > 0 {
		report.Coverage = float64(passed) / float64(n)
	}
	if rec.ExtractionFailed {
		report.Status = StatusInvalid
	}
	return report
}

// FieldStat counts how many records carry a checked field.
type FieldStat struct {
	Field    string   `json:"field"`
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
	Present  int      `json:"present"`
	Missing  int      `json:"missing"`
}

// Rate returns the present share, or 0 for an empty set.
func (s FieldStat) Rate() float64 {
	total := s.Present + s.Missing
	if total == 0 {
		return 0
	}
	return float64(s.Present) / float64(total)
}

// Coverage tallies every check across records, in registration order.
func (r *Registry) Coverage(records []domain.BOLRecord) []FieldStat {
	checks := r.All()
	stats := make([]FieldStat, len(checks))
	for i, c := range checks {
		stats[i] = FieldStat{Field: c.Field(), Name: c.Name(), Severity: c.Severity()}
		for j := range records {
			if c.Check(&records[j]).Passed {
				stats[i].Present++
			} else {
				stats[i].Missing++
			}
		}
	}
	return stats
}
