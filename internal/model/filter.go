package model

import (
	"strings"
	"time"
)

// QuickView selects which bucketed view to compute.
type QuickView int

const (
	ViewToday QuickView = iota
	ViewOverdue
	ViewUpcoming
	ViewCompleted
	ViewAllProjects
	ViewSelectedProjects
	ViewCustomDate
)

// DefaultHorizonDays is how far ahead the Upcoming view looks.
const DefaultHorizonDays = 14

// AdvancedFilter narrows a view further. Zero values / nil pointers
// mean the corresponding condition is not applied.
type AdvancedFilter struct {
	MinPriority *Priority
	MaxPriority *Priority
	Text        string // substring match over name and details
	DueFrom     *time.Time
	DueTo       *time.Time
}

// Matches reports whether the task passes every set condition.
func (f AdvancedFilter) Matches(t Task) bool {
	p := t.Priority.Normalized()
	if f.MinPriority != nil && p < *f.MinPriority {
		return false
	}
	if f.MaxPriority != nil && p > *f.MaxPriority {
		return false
	}
	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		haystack := strings.ToLower(t.Name + "\n" + t.Details)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	if f.DueFrom != nil || f.DueTo != nil {
		if t.DueDate == nil {
			return false
		}
		if f.DueFrom != nil && t.DueDate.Before(*f.DueFrom) {
			return false
		}
		if f.DueTo != nil && t.DueDate.After(*f.DueTo) {
			return false
		}
	}
	return true
}

// FilterState captures the active view selection. Values are never
// mutated in place: every With* constructor returns a copy, so a state
// already handed to the bucketing engine stays stable.
type FilterState struct {
	QuickView        QuickView
	SelectedProjects map[string]struct{} // project IDs; empty means all
	Advanced         *AdvancedFilter
	IncludeCompleted bool
	CustomDate       *time.Time
	HorizonDays      int
}

// NewFilterState returns the default view: today, all projects.
func NewFilterState() FilterState {
	return FilterState{QuickView: ViewToday, HorizonDays: DefaultHorizonDays}
}

// WithQuickView returns a copy with the given selector.
func (f FilterState) WithQuickView(v QuickView) FilterState {
	c := f.clone()
	c.QuickView = v
	return c
}

// WithSelectedProjects returns a copy restricted to the given project
// IDs, replacing any prior selection.
func (f FilterState) WithSelectedProjects(ids ...string) FilterState {
	c := f.clone()
	c.SelectedProjects = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		c.SelectedProjects[id] = struct{}{}
	}
	return c
}

// WithAdvancedFilter returns a copy with the given advanced filter.
func (f FilterState) WithAdvancedFilter(af AdvancedFilter) FilterState {
	c := f.clone()
	c.Advanced = &af
	return c
}

// WithCustomDate returns a copy viewing the given date.
func (f FilterState) WithCustomDate(d time.Time) FilterState {
	c := f.clone()
	c.QuickView = ViewCustomDate
	c.CustomDate = &d
	return c
}

// WithCompleted returns a copy that interleaves completed tasks.
func (f FilterState) WithCompleted(include bool) FilterState {
	c := f.clone()
	c.IncludeCompleted = include
	return c
}

// ClearingProjectFilters returns a copy with no project restriction.
func (f FilterState) ClearingProjectFilters() FilterState {
	c := f.clone()
	c.SelectedProjects = nil
	return c
}

// SelectsProject reports whether the given project ID passes the
// current selection. An empty selection passes everything.
func (f FilterState) SelectsProject(id string) bool {
	if len(f.SelectedProjects) == 0 {
		return true
	}
	_, ok := f.SelectedProjects[id]
	return ok
}

// Horizon returns the upcoming horizon, falling back to the default
// for zero-valued states.
func (f FilterState) Horizon() int {
	if f.HorizonDays <= 0 {
		return DefaultHorizonDays
	}
	return f.HorizonDays
}

func (f FilterState) clone() FilterState {
	c := f
	if f.SelectedProjects != nil {
		c.SelectedProjects = make(map[string]struct{}, len(f.SelectedProjects))
		for id := range f.SelectedProjects {
			c.SelectedProjects[id] = struct{}{}
		}
	}
	if f.Advanced != nil {
		af := *f.Advanced
		c.Advanced = &af
	}
	if f.CustomDate != nil {
		d := *f.CustomDate
		c.CustomDate = &d
	}
	return c
}
