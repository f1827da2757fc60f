package dataset

// MonthlyMichaelCode is the archangel's feast kept on the 12th of every
// Coptic month. It is treated as monthly even when the data omits the flag.
const (
	MonthlyMichaelCode = "ARCHANGEL_MICHAEL_MONTHLY"
	MonthlyMichaelDay  = 12
)

type dayMonth struct {
	day, month int
}

// index holds read-only lookups derived once from the raw dataset.
type index struct {
	saintsOn     map[dayMonth][]int
	paramonCodes map[string]bool
	periods      map[string]int
	titles       map[string]Text
}

// New returns a prepared copy of raw with its lookup indexes built. The
// result must not be mutated.
func New(raw Master) *Master {
	m := raw
	m.idx = buildIndex(&m)
	return &m
}

func buildIndex(m *Master) *index {
	idx := &index{
		saintsOn:     make(map[dayMonth][]int),
		paramonCodes: make(map[string]bool),
		periods:      make(map[string]int),
		titles:       make(map[string]Text),
	}

	listed := make(map[dayMonth]map[string]bool)
	for _, c := range m.Commemorations {
		key := dayMonth{c.CopticDay, c.CopticMonth}
		if listed[key] == nil {
			listed[key] = make(map[string]bool)
		}
		for _, id := range c.Saints {
			listed[key][id] = true
		}
	}

	// A saint is shown only when a commemoration record for its own day lists it.
	for i, s := range m.Saints {
		key := dayMonth{s.CopticDay, s.CopticMonth}
		if listed[key][s.ID] {
			idx.saintsOn[key] = append(idx.saintsOn[key], i)
		}
	}

	for _, r := range m.ParamonRules {
		idx.paramonCodes[r.Code] = true
	}
	for i, p := range m.FastingPeriods {
		idx.periods[p.Code] = i
	}
	for _, f := range m.FixedFeasts {
		idx.titles[f.Code] = f.Title
	}
	for _, f := range m.MovableFeasts {
		idx.titles[f.Code] = f.Title
	}

	return idx
}

func (m *Master) index() *index {
	if m.idx == nil {
		// Zero-value or hand-built masters get indexed lazily; callers are
		// expected to go through New or Load before sharing a Master.
		m.idx = buildIndex(m)
	}
	return m.idx
}

// IsMonthly reports whether the feast recurs on its Coptic day every month.
func (f FixedFeast) IsMonthly() bool {
	return f.Monthly || f.Code == MonthlyMichaelCode
}

// Matches reports whether the feast falls on the given Coptic day/month.
func (f FixedFeast) Matches(day, month int) bool {
	if f.CopticDay == day && f.CopticMonth == month {
		return true
	}
	if f.Code == MonthlyMichaelCode && !f.Monthly {
		return day == MonthlyMichaelDay
	}
	return f.Monthly && f.CopticDay == day
}

// FixedFeastsOn returns the fixed feasts for a Coptic day/month in dataset order.
func (m *Master) FixedFeastsOn(day, month int) []FixedFeast {
	var out []FixedFeast
	for _, f := range m.FixedFeasts {
		if f.Matches(day, month) {
			out = append(out, f)
		}
	}
	return out
}

// SaintsOn returns the saints commemorated on a Coptic day/month.
func (m *Master) SaintsOn(day, month int) []Saint {
	ids := m.index().saintsOn[dayMonth{day, month}]
	out := make([]Saint, 0, len(ids))
	for _, i := range ids {
		out = append(out, m.Saints[i])
	}
	return out
}

// IsParamonCode reports whether code names one of the dataset's Paramon rules.
func (m *Master) IsParamonCode(code string) bool {
	return m.index().paramonCodes[code]
}

// FastingPeriod looks up a fasting-period rule by code.
func (m *Master) FastingPeriod(code string) (FastingPeriod, bool) {
	i, ok := m.index().periods[code]
	if !ok {
		return FastingPeriod{}, false
	}
	return m.FastingPeriods[i], true
}

// FeastTitle returns the title of a fixed or movable feast.
func (m *Master) FeastTitle(code string) (Text, bool) {
	t, ok := m.index().titles[code]
	return t, ok
}
