package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/planner"
)

// ReportService renders computed views into human-readable HTML for
// Telegram delivery.
type ReportService struct {
	taskSvc *TaskService
	horizon int
}

func NewReportService(taskSvc *TaskService, horizonDays int) *ReportService {
	if horizonDays <= 0 {
		horizonDays = model.DefaultHorizonDays
	}
	return &ReportService{taskSvc: taskSvc, horizon: horizonDays}
}

// BaseFilter returns the default filter with the configured horizon.
func (s *ReportService) BaseFilter() model.FilterState {
	f := model.NewFilterState()
	f.HorizonDays = s.horizon
	return f
}

// View computes the sections for the given filter against the current
// repository snapshot.
func (s *ReportService) View(ctx context.Context, ref, now time.Time, f model.FilterState) ([]planner.Section, error) {
	tasks, projects, err := s.taskSvc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return planner.Buckets(tasks, projects, ref, now, f), nil
}

// Score computes the productivity score for the day containing ref.
func (s *ReportService) Score(ctx context.Context, ref time.Time) (int, error) {
	tasks, _, err := s.taskSvc.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return planner.DailyScore(tasks, ref), nil
}

// DailyReport builds the full morning summary: today's board plus the
// running score.
func (s *ReportService) DailyReport(ctx context.Context, now time.Time) (string, error) {
	sections, err := s.View(ctx, now, now, s.BaseFilter())
	if err != nil {
		return "", err
	}
	score, err := s.Score(ctx, now)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("📋 <b>Daily report</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("02.01.2006")))
	b.WriteString(RenderSections(sections, now))
	b.WriteString(fmt.Sprintf("\n🏆 Score today: <b>%d</b>", score))
	return strings.TrimSpace(b.String()), nil
}

// RenderSections formats sections into Telegram HTML.
func RenderSections(sections []planner.Section, now time.Time) string {
	if len(sections) == 0 {
		return "— nothing here\n"
	}
	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(fmt.Sprintf("<b>%s</b>\n", html.EscapeString(section.Title)))
		for _, task := range section.Tasks {
			b.WriteString(formatTask(task, now))
		}
	}
	return b.String()
}

func formatTask(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	switch {
	case task.Completed():
		icon = "✅"
	case task.DueDate != nil && now.After(*task.DueDate):
		icon = "⚠️"
	case task.DueDate != nil && task.DueDate.Sub(now) <= 48*time.Hour:
		icon = "⏳"
	}

	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(task.DisplayName())))
	if p := task.Priority.Normalized(); p > model.PriorityLow {
		sb.WriteString(fmt.Sprintf(" <i>[%s]</i>", p))
	}
	if task.DueDate != nil && !task.Completed() {
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s", task.DueDate.In(now.Location()).Format("2006-01-02")))
	}
	if task.Details != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(strings.TrimSpace(task.Details))))
	}
	sb.WriteByte('\n')
	return sb.String()
}
