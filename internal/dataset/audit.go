package dataset

import (
	"fmt"
	"sort"
)

// Report collects audit findings. Critical findings make the dataset unfit
// to serve; warnings point at likely authoring gaps.
type Report struct {
	Critical []string `json:"critical"`
	Warnings []string `json:"warnings"`
}

// OK reports whether the audit found no critical problems.
func (r *Report) OK() bool {
	return len(r.Critical) == 0
}

func (r *Report) fail(format string, args ...any) {
	r.Critical = append(r.Critical, fmt.Sprintf(format, args...))
}

func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Audit runs the data-integrity checks that need no calendar arithmetic.
// Unlike Validate it reports every finding instead of stopping the load.
func Audit(m *Master) *Report {
	r := &Report{}

	if dups := DuplicateSaintIDs(m); len(dups) > 0 {
		r.fail("duplicate saint ids: %v", dups)
	}
	if dups := DuplicateFeastCodes(m); len(dups) > 0 {
		r.fail("duplicate feast codes: %v", dups)
	}

	known := make(map[string]bool, len(m.Saints))
	for _, s := range m.Saints {
		known[s.ID] = true
	}

	commemorated := make(map[string]bool)
	var unknown []string
	for _, c := range m.Commemorations {
		for _, id := range c.Saints {
			commemorated[id] = true
			if !known[id] {
				unknown = append(unknown, id)
			}
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		r.fail("commemorations reference unknown saints: %v", unknown)
	}
	for _, err := range SchemaErrors(m) {
		r.fail("%v", err)
	}

	var orphans []string
	for _, s := range m.Saints {
		if !commemorated[s.ID] {
			orphans = append(orphans, s.ID)
		}
	}
	if len(orphans) > 0 {
		r.warn("%d saints have no daily commemoration (e.g. %v)", len(orphans), orphans[:min(5, len(orphans))])
	}

	for _, p := range m.ParamonRules {
		var missing []string
		for _, wd := range WeekdayCodes {
			if _, ok := p.Mapping[wd]; !ok {
				missing = append(missing, wd)
			}
		}
		if len(missing) > 0 {
			r.warn("paramon rule %s has no mapping for %v; the day before the feast is assumed", p.Code, missing)
		}
		if _, ok := m.FeastTitle(p.FeastCode); !ok {
			r.warn("paramon rule %s anchors on undefined feast %s", p.Code, p.FeastCode)
		}
	}

	return r
}
