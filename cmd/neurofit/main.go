package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/neurofit/internal/cli"
	"github.com/alexanderramin/neurofit/internal/config"
	"github.com/alexanderramin/neurofit/internal/db"
	"github.com/alexanderramin/neurofit/internal/repository"
	"github.com/alexanderramin/neurofit/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelWarn
	if cfg.LogCalls {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	workoutRepo := repository.NewSQLiteWorkoutRepo(database)
	resultRepo := repository.NewSQLiteSessionResultRepo(database)
	progressRepo := repository.NewSQLiteUserProgressRepo(database)
	feedbackRepo := repository.NewSQLiteFeedbackRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	observer := service.NewSlogUseCaseObserver(logger.With("component", "service"))

	app := &cli.App{
		Workouts: service.NewWorkoutService(workoutRepo, uow, observer),
		Progress: service.NewProgressService(resultRepo, progressRepo, workoutRepo, feedbackRepo, uow, observer),
		Feedback: service.NewFeedbackService(feedbackRepo, observer),
		Config:   cfg,
		Logger:   logger,
	}

	// Detect interactive terminal for the player view and feedback form.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
