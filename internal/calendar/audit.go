package calendar

import (
	"fmt"

	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
)

// CheckBoundaries reports every fixed Coptic reference in the dataset that
// cannot be located around year: Paramon anchors and fasting-period
// boundaries. An empty result means every rule resolves in that year.
func CheckBoundaries(ds *dataset.Master, year int) []error {
	var errs []error

	for _, rule := range ds.ParamonRules {
		if _, err := LocateFixedCoptic(rule.FeastDay, rule.FeastMonth, year); err != nil {
			errs = append(errs, fmt.Errorf("paramon rule %s: %w", rule.Code, err))
		}
	}

	for _, p := range ds.FastingPeriods {
		for _, b := range []struct {
			name string
			b    dataset.Boundary
		}{{"start", p.Start}, {"end", p.End}} {
			if b.b.Type != dataset.BoundaryFixedCoptic {
				continue
			}
			if _, err := LocateFixedCoptic(b.b.Day, b.b.Month, year); err != nil {
				errs = append(errs, fmt.Errorf("fasting period %s %s: %w", p.Code, b.name, err))
			}
		}
	}

	return errs
}
