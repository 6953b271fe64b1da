package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/bot"
	"taskboard/internal/config"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	taskSvc := service.NewTaskService(taskRepo, projectRepo)
	projectSvc := service.NewProjectService(projectRepo)
	reportSvc := service.NewReportService(taskSvc, cfg.UpcomingHorizonDays)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, taskSvc, projectSvc, reportSvc, &cfg)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleDaily(cfg.ReportTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("report: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule reports: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Taskboard bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
