package planner

import (
	"sort"
	"time"

	"taskboard/internal/model"
)

// Section is one named slice of a computed view, ready for display.
type Section struct {
	Title string
	Tasks []model.Task
}

// Buckets transforms a snapshot of tasks and projects into the ordered
// sections of the requested view. It never mutates its inputs, yields
// identical output for identical inputs, and never fails: malformed
// tasks are kept (with placeholder display names downstream), and a
// missing Inbox project is synthesized.
//
// ref is the day the user is viewing; now is the wall clock. Overdue
// status is always computed against now, not ref: a task is overdue
// relative to the present moment, no matter which day is on screen.
func Buckets(tasks []model.Task, projects []model.Project, ref, now time.Time, f model.FilterState) []Section {
	if f.QuickView == model.ViewCustomDate && f.CustomDate != nil {
		ref = *f.CustomDate
	}
	if f.QuickView == model.ViewUpcoming {
		return upcoming(tasks, now, f)
	}

	g := newGrouping(projects, f)
	todayStart := startOfDay(now)

	var overdue []model.Task
	activeBy := make(map[string][]model.Task)
	completedBy := make(map[string][]model.Task)
	for _, t := range tasks {
		if f.Advanced != nil && !f.Advanced.Matches(t) {
			continue
		}
		bucketID, selected := g.resolve(t)
		if !selected {
			continue
		}
		switch {
		case t.DueDate != nil && t.DueDate.Before(todayStart) && !t.Completed():
			overdue = append(overdue, t)
		case t.Completed() && withinDay(*t.CompletedAt, ref):
			completedBy[bucketID] = append(completedBy[bucketID], t)
		case t.DueDate != nil && withinDay(*t.DueDate, ref) && !t.Completed():
			activeBy[bucketID] = append(activeBy[bucketID], t)
		}
	}

	var sections []Section

	// The overdue set spans all projects and is emitted once, up
	// front; projects never get their own overdue subsection.
	if f.QuickView != model.ViewCompleted && len(overdue) > 0 {
		sections = append(sections, Section{Title: "Overdue", Tasks: sortBucket(overdue)})
	}
	if f.QuickView == model.ViewOverdue {
		return sections
	}

	for _, b := range g.ordered {
		active, completed := activeBy[b.id], completedBy[b.id]
		if f.QuickView == model.ViewCompleted {
			active = nil
		}
		if f.IncludeCompleted {
			merged := append(append([]model.Task{}, active...), completed...)
			if len(merged) > 0 {
				sections = append(sections, Section{Title: b.name, Tasks: sortBucket(merged)})
			}
			continue
		}
		if len(active) > 0 {
			sections = append(sections, Section{Title: b.name, Tasks: sortBucket(active)})
		}
		if len(completed) > 0 {
			sections = append(sections, Section{Title: b.name + " – Completed", Tasks: sortBucket(completed)})
		}
	}
	return sections
}

type projectBucket struct {
	id   string
	name string
}

// grouping maps tasks to display buckets: Inbox first, remaining
// projects sorted case-insensitively by name, optionally restricted to
// the filter's selected set.
type grouping struct {
	ordered  []projectBucket
	known    map[string]bool // every real project id
	selected map[string]bool // ids surviving the selection, keyed like ordered
	inboxID  string
}

func newGrouping(projects []model.Project, f model.FilterState) *grouping {
	g := &grouping{known: make(map[string]bool), selected: make(map[string]bool)}

	var inbox *projectBucket
	var rest []projectBucket
	for _, p := range projects {
		g.known[p.ID] = true
		if p.IsInbox() && inbox == nil {
			inbox = &projectBucket{id: p.ID, name: p.Name}
			continue
		}
		rest = append(rest, projectBucket{id: p.ID, name: p.Name})
	}
	// Storage without an Inbox row still gets an Inbox bucket.
	if inbox == nil {
		inbox = &projectBucket{name: model.InboxName}
	}
	g.inboxID = inbox.id
	sort.SliceStable(rest, func(i, j int) bool {
		return model.ProjectKey(rest[i].name) < model.ProjectKey(rest[j].name)
	})

	restrict := f.QuickView == model.ViewSelectedProjects && len(f.SelectedProjects) > 0
	for _, b := range append([]projectBucket{*inbox}, rest...) {
		if restrict && !f.SelectsProject(b.id) {
			continue
		}
		g.ordered = append(g.ordered, b)
		g.selected[b.id] = true
	}
	return g
}

// resolve returns the bucket a task belongs to and whether that bucket
// survived the project selection. Tasks with no project, or pointing
// at a project row that no longer exists, belong to Inbox.
func (g *grouping) resolve(t model.Task) (string, bool) {
	id := t.ProjectID
	if id == "" || !g.known[id] {
		id = g.inboxID
	}
	return id, g.selected[id]
}

// upcoming is the flat view: tasks due after today and within the
// horizon, due date ascending then priority descending, ungrouped.
func upcoming(tasks []model.Task, now time.Time, f model.FilterState) []Section {
	today := startOfDay(now)
	limit := today.AddDate(0, 0, f.Horizon())

	var due []model.Task
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		if t.Completed() && !f.IncludeCompleted {
			continue
		}
		if f.Advanced != nil && !f.Advanced.Matches(t) {
			continue
		}
		day := startOfDay(t.DueDate.In(now.Location()))
		if day.After(today) && !day.After(limit) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].DueDate.Equal(*due[j].DueDate) {
			return due[i].DueDate.Before(*due[j].DueDate)
		}
		return due[i].Priority.Normalized() > due[j].Priority.Normalized()
	})
	return []Section{{Title: "Upcoming", Tasks: due}}
}

// sortBucket orders one section: priority descending, then due date
// ascending with undated tasks after every dated one, then age.
func sortBucket(tasks []model.Task) []model.Task {
	out := append([]model.Task{}, tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Priority.Normalized(), out[j].Priority.Normalized()
		if pi != pj {
			return pi > pj
		}
		switch {
		case out[i].DueDate == nil && out[j].DueDate == nil:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		case out[i].DueDate == nil:
			return false
		case out[j].DueDate == nil:
			return true
		case !out[i].DueDate.Equal(*out[j].DueDate):
			return out[i].DueDate.Before(*out[j].DueDate)
		default:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
	})
	return out
}
