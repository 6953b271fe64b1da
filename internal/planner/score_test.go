package planner

import (
	"testing"
	"time"

	"taskboard/internal/model"
)

func TestScoreIsStrictlyMonotonic(t *testing.T) {
	order := []model.Priority{model.PriorityNone, model.PriorityLow, model.PriorityHigh, model.PriorityMax}
	prev := -1
	for _, p := range order {
		s := Score(p)
		if s < 0 {
			t.Fatalf("score(%s) = %d, want non-negative", p, s)
		}
		if s <= prev {
			t.Fatalf("score(%s) = %d, want greater than %d", p, s, prev)
		}
		prev = s
	}
}

func TestScoreFailsClosedForUnknownPriority(t *testing.T) {
	if got := Score(model.Priority(42)); got != Score(model.PriorityNone) {
		t.Fatalf("score(42) = %d, want the none score %d", got, Score(model.PriorityNone))
	}
	if got := Score(model.Priority(-1)); got != 0 {
		t.Fatalf("score(-1) = %d, want 0", got)
	}
}

func TestDailyScoreCountsCompletionDayNotDueDate(t *testing.T) {
	day := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	lastWeek := day.AddDate(0, 0, -7)
	doneToday := day.Add(2 * time.Hour)
	doneYesterday := day.AddDate(0, 0, -1)

	tasks := []model.Task{
		// Due last week, finished today: counts today.
		{Name: "late finish", Priority: model.PriorityMax, DueDate: &lastWeek, CompletedAt: &doneToday},
		// Finished yesterday: does not count today.
		{Name: "old", Priority: model.PriorityHigh, CompletedAt: &doneYesterday},
		// Not finished at all.
		{Name: "open", Priority: model.PriorityMax, DueDate: &day},
	}

	if got := DailyScore(tasks, day); got != Score(model.PriorityMax) {
		t.Fatalf("daily score = %d, want %d", got, Score(model.PriorityMax))
	}
	if got := DailyScore(tasks, day.AddDate(0, 0, -1)); got != Score(model.PriorityHigh) {
		t.Fatalf("yesterday's score = %d, want %d", got, Score(model.PriorityHigh))
	}
}

func TestDailyScoreDayBoundaries(t *testing.T) {
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	atMidnight := day
	justBeforeNext := day.Add(24*time.Hour - time.Second)
	nextMidnight := day.Add(24 * time.Hour)

	tasks := []model.Task{
		{Name: "a", Priority: model.PriorityLow, CompletedAt: &atMidnight},
		{Name: "b", Priority: model.PriorityLow, CompletedAt: &justBeforeNext},
		{Name: "c", Priority: model.PriorityLow, CompletedAt: &nextMidnight},
	}

	if got := DailyScore(tasks, day.Add(12*time.Hour)); got != 2 {
		t.Fatalf("daily score = %d, want 2 (start inclusive, end exclusive)", got)
	}
}
