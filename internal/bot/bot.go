package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskboard/internal/config"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

const (
	cbDeletePrefix = "delete:"
	cbCancelPrefix = "cancel:"
)

const dateLayout = "2006-01-02"

// Bot aggregates the Telegram API with the board services.
type Bot struct {
	api        *tgbotapi.BotAPI
	userRepo   *repository.UserRepository
	taskSvc    *service.TaskService
	projectSvc *service.ProjectService
	reportSvc  *service.ReportService
	config     *config.Config
}

func New(token string, userRepo *repository.UserRepository, taskSvc *service.TaskService, projectSvc *service.ProjectService, reportSvc *service.ReportService, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:        api,
		userRepo:   userRepo,
		taskSvc:    taskSvc,
		projectSvc: projectSvc,
		reportSvc:  reportSvc,
		config:     cfg,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	if !msg.IsCommand() {
		return b.sendText(msg.Chat.ID, "I only speak commands. Try /help.")
	}

	log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())

	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "today":
		return b.handleToday(ctx, msg)
	case "upcoming":
		return b.handleQuickView(ctx, msg, model.ViewUpcoming)
	case "overdue":
		return b.handleQuickView(ctx, msg, model.ViewOverdue)
	case "completed":
		return b.handleQuickView(ctx, msg, model.ViewCompleted)
	case "add":
		return b.handleAdd(ctx, msg)
	case "done":
		return b.handleDone(ctx, msg)
	case "open":
		return b.handleOpen(ctx, msg)
	case "delete":
		return b.handleDelete(ctx, msg)
	case "move":
		return b.handleMove(ctx, msg)
	case "projects":
		return b.handleProjects(ctx, msg)
	case "newproject":
		return b.handleNewProject(ctx, msg)
	case "delproject":
		return b.handleDelProject(ctx, msg)
	case "score":
		return b.handleScore(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	text := fmt.Sprintf("Hi, %s! You are subscribed to the daily report at %s.\nAdd your first task with /add, see /help for the rest.",
		html.EscapeString(msg.From.FirstName), b.config.ReportTime)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	help := `<b>Board</b>
/today [yyyy-mm-dd] — today's board (or any day)
/upcoming — due within the horizon
/overdue — everything past due
/completed — completed today
/report — full daily report with score
/score [yyyy-mm-dd] — productivity score

<b>Tasks</b>
/add name | due=yyyy-mm-dd | prio=low|high|max | proj=Name | note=text
/done id — complete a task (id prefix is enough)
/open id — reopen a task
/move id Project — move a task
/delete id — delete a task

<b>Projects</b>
/projects — list projects
/newproject Name — create a project
/delproject Name — delete a project (tasks go to Inbox)`
	return b.sendText(msg.Chat.ID, help)
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) error {
	now := time.Now()
	ref := now
	f := b.reportSvc.BaseFilter()

	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		day, err := time.ParseInLocation(dateLayout, arg, now.Location())
		if err != nil {
			return b.sendText(msg.Chat.ID, "I could not read that date, expected yyyy-mm-dd.")
		}
		ref = day
		f = f.WithCustomDate(day)
	}

	sections, err := b.reportSvc.View(ctx, ref, now, f)
	if err != nil {
		return err
	}
	header := fmt.Sprintf("🗓 <b>%s</b>\n\n", ref.Format(dateLayout))
	return b.sendText(msg.Chat.ID, header+service.RenderSections(sections, now))
}

func (b *Bot) handleQuickView(ctx context.Context, msg *tgbotapi.Message, view model.QuickView) error {
	now := time.Now()
	f := b.reportSvc.BaseFilter().WithQuickView(view)
	sections, err := b.reportSvc.View(ctx, now, now, f)
	if err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, service.RenderSections(sections, now))
}

// handleAdd parses a single-line task description of the form
// "name | due=... | prio=... | proj=... | note=...".
func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendText(msg.Chat.ID, "Usage: /add name | due=yyyy-mm-dd | prio=low|high|max | proj=Name | note=text")
	}

	input, err := parseAddArgs(args, time.Now().Location())
	if err != nil {
		return b.sendText(msg.Chat.ID, html.EscapeString(err.Error()))
	}

	task, err := b.taskSvc.CreateTask(ctx, input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return b.sendText(msg.Chat.ID, "No such project. /projects lists them, /newproject creates one.")
		}
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("Added <b>%s</b> (id %s).", html.EscapeString(task.DisplayName()), shortID(task.ID)))
}

func parseAddArgs(args string, loc *time.Location) (service.TaskInput, error) {
	var input service.TaskInput
	for i, part := range strings.Split(args, "|") {
		part = strings.TrimSpace(part)
		if i == 0 {
			input.Name = part
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return input, fmt.Errorf("expected key=value, got %q", part)
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "due":
			day, err := time.ParseInLocation(dateLayout, value, loc)
			if err != nil {
				return input, fmt.Errorf("bad due date %q, expected yyyy-mm-dd", value)
			}
			input.DueDate = &day
		case "prio":
			p := model.ParsePriority(strings.ToLower(value))
			input.Priority = &p
		case "proj":
			input.Project = value
		case "note":
			input.Details = value
		case "kind":
			if strings.EqualFold(value, "evening") {
				input.Kind = model.KindEvening
			}
		default:
			return input, fmt.Errorf("unknown field %q", key)
		}
	}
	return input, nil
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message) error {
	task, err := b.findTask(ctx, msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, html.EscapeString(err.Error()))
	}
	if _, err := b.taskSvc.CompleteTask(ctx, task.ID, time.Now()); err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ <b>%s</b> completed.", html.EscapeString(task.DisplayName())))
}

func (b *Bot) handleOpen(ctx context.Context, msg *tgbotapi.Message) error {
	task, err := b.findTask(ctx, msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, html.EscapeString(err.Error()))
	}
	if _, err := b.taskSvc.ReopenTask(ctx, task.ID); err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("↩️ <b>%s</b> reopened.", html.EscapeString(task.DisplayName())))
}

// handleDelete asks for confirmation first; deletion is irreversible.
func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	task, err := b.findTask(ctx, msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, html.EscapeString(err.Error()))
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", cbDeletePrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Cancel", cbCancelPrefix+task.ID),
		),
	)
	text := fmt.Sprintf("Delete <b>%s</b>? This can not be undone.", html.EscapeString(task.DisplayName()))
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = markup
	_, err = b.api.Send(out)
	return err
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.Message == nil {
		return nil
	}
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			log.Printf("answer callback: %v", err)
		}
	}()

	switch {
	case strings.HasPrefix(cb.Data, cbDeletePrefix):
		taskID := strings.TrimPrefix(cb.Data, cbDeletePrefix)
		task, err := b.taskSvc.GetTask(ctx, taskID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return b.sendText(cb.Message.Chat.ID, "That task is already gone.")
			}
			return err
		}
		if err := b.taskSvc.DeleteTask(ctx, taskID); err != nil {
			return err
		}
		return b.sendText(cb.Message.Chat.ID, fmt.Sprintf("🗑 <b>%s</b> deleted.", html.EscapeString(task.DisplayName())))
	case strings.HasPrefix(cb.Data, cbCancelPrefix):
		return b.sendText(cb.Message.Chat.ID, "Kept it.")
	default:
		return nil
	}
}

func (b *Bot) handleMove(ctx context.Context, msg *tgbotapi.Message) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) < 2 {
		return b.sendText(msg.Chat.ID, "Usage: /move id Project")
	}
	task, err := b.findTask(ctx, fields[0])
	if err != nil {
		return b.sendText(msg.Chat.ID, html.EscapeString(err.Error()))
	}
	projectName := strings.Join(fields[1:], " ")
	if _, err := b.taskSvc.MoveTask(ctx, task.ID, projectName); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return b.sendText(msg.Chat.ID, "No such project. /projects lists them.")
		}
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("📂 <b>%s</b> moved to %s.",
		html.EscapeString(task.DisplayName()), html.EscapeString(projectName)))
}

func (b *Bot) handleProjects(ctx context.Context, msg *tgbotapi.Message) error {
	projects, err := b.projectSvc.List(ctx)
	if err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString("<b>Projects</b>\n")
	for _, p := range projects {
		sb.WriteString(fmt.Sprintf("📂 %s", html.EscapeString(p.Name)))
		if p.Details != "" {
			sb.WriteString(fmt.Sprintf(" — %s", html.EscapeString(p.Details)))
		}
		sb.WriteByte('\n')
	}
	return b.sendText(msg.Chat.ID, sb.String())
}

func (b *Bot) handleNewProject(ctx context.Context, msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.CommandArguments())
	project, err := b.projectSvc.CreateProject(ctx, name, "")
	switch {
	case errors.Is(err, repository.ErrEmptyName):
		return b.sendText(msg.Chat.ID, "Usage: /newproject Name")
	case errors.Is(err, repository.ErrReservedProject):
		return b.sendText(msg.Chat.ID, "Inbox already exists, it is the default project.")
	case errors.Is(err, repository.ErrNameTaken):
		return b.sendText(msg.Chat.ID, "A project with that name already exists.")
	case err != nil:
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("📂 Project <b>%s</b> created.", html.EscapeString(project.Name)))
}

func (b *Bot) handleDelProject(ctx context.Context, msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		return b.sendText(msg.Chat.ID, "Usage: /delproject Name")
	}
	project, err := b.projectSvc.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return b.sendText(msg.Chat.ID, "No such project.")
		}
		return err
	}
	if err := b.projectSvc.DeleteProject(ctx, project.ID); err != nil {
		if errors.Is(err, repository.ErrReservedProject) {
			return b.sendText(msg.Chat.ID, "Inbox can not be deleted.")
		}
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Project <b>%s</b> deleted, its tasks moved to Inbox.", html.EscapeString(project.Name)))
}

func (b *Bot) handleScore(ctx context.Context, msg *tgbotapi.Message) error {
	ref := time.Now()
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		day, err := time.ParseInLocation(dateLayout, arg, ref.Location())
		if err != nil {
			return b.sendText(msg.Chat.ID, "I could not read that date, expected yyyy-mm-dd.")
		}
		ref = day
	}
	score, err := b.reportSvc.Score(ctx, ref)
	if err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🏆 Score for %s: <b>%d</b>", ref.Format(dateLayout), score))
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	report, err := b.reportSvc.DailyReport(ctx, time.Now())
	if err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, report)
}

// SendDailyReports pushes the daily report to every subscriber.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	report, err := b.reportSvc.DailyReport(ctx, time.Now())
	if err != nil {
		return err
	}
	for _, user := range users {
		if err := b.sendText(user.TelegramID, report); err != nil {
			log.Printf("send report to %d: %v", user.TelegramID, err)
		}
	}
	return nil
}

// findTask resolves a task by ID prefix: full UUIDs are unwieldy in
// chat, so any unambiguous prefix works.
func (b *Bot) findTask(ctx context.Context, arg string) (*model.Task, error) {
	prefix := strings.TrimSpace(arg)
	if prefix == "" {
		return nil, fmt.Errorf("give me a task id (any unique prefix)")
	}
	tasks, _, err := b.taskSvc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var found *model.Task
	for i := range tasks {
		if strings.HasPrefix(tasks[i].ID, prefix) {
			if found != nil {
				return nil, fmt.Errorf("id %q matches more than one task", prefix)
			}
			found = &tasks[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no task with id %q", prefix)
	}
	return found, nil
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
