package planner

import (
	"time"

	"taskboard/internal/model"
)

// Score maps a priority to points. The values are a policy choice; the
// contract is strict monotonicity none < low < high < max and a result
// that is never negative. Out-of-range priorities from legacy storage
// score as none rather than failing.
func Score(p model.Priority) int {
	switch p.Normalized() {
	case model.PriorityLow:
		return 1
	case model.PriorityHigh:
		return 2
	case model.PriorityMax:
		return 3
	default:
		return 0
	}
}

// DailyScore sums the scores of every task completed within the local
// calendar day containing ref. The task's due date is irrelevant: a
// task completed today counts today no matter when it was due.
func DailyScore(tasks []model.Task, ref time.Time) int {
	total := 0
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		if withinDay(*t.CompletedAt, ref) {
			total += Score(t.Priority)
		}
	}
	return total
}
