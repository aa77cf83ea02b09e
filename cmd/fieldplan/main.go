package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/fieldplan/internal/calendar"
	"github.com/alexanderramin/fieldplan/internal/cli"
	"github.com/alexanderramin/fieldplan/internal/config"
	"github.com/alexanderramin/fieldplan/internal/db"
	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/logger"
	"github.com/alexanderramin/fieldplan/internal/planning"
	"github.com/alexanderramin/fieldplan/internal/repository"
	"github.com/alexanderramin/fieldplan/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := cli.ErrorHint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Debug: cfg.Debug, DataDir: cfg.DataDir, Stderr: os.Stderr})
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer log.Close()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	headerRepo := repository.NewSQLiteHeaderRepo(database)
	detailRepo := repository.NewSQLiteDetailRepo(database)
	catalogRepo := repository.NewSQLiteCatalogRepo(database)
	reportRepo := repository.NewSQLiteReportRepo(database)
	oplogRepo := repository.NewSQLiteOperationLogRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	feedCfg := cfg.CalendarFeed()
	var (
		feed   calendar.Feed
		tokens calendar.TokenStore
	)
	if feedCfg.Enabled() {
		store := calendar.NewKeyringTokenStore(cfg.User)
		tokens = store
		feed = calendar.NewHTTPFeed(feedCfg, store, calendar.NewLogObserver(log.Logger))
	} else {
		log.Debug("calendar disabled, plannings are edited without reconciliation")
	}

	svc := service.NewPlanningService(uow, headerRepo, detailRepo, catalogRepo, reportRepo, oplogRepo, feed,
		service.WithPolicy(planning.NewPolicy(cfg.PrivilegedPriority)),
		service.WithDebounce(cfg.Debounce()),
		service.WithLogger(log.Logger),
		service.WithObserver(service.NewLogUseCaseObserver(log.Logger)),
	)

	app := &cli.App{
		Planning: svc,
		Actor:    domain.Actor{Attribution: cfg.User, Priority: cfg.Priority},
		Tokens:   tokens,
		OAuth:    feedCfg.OAuth,
	}

	// Detect interactive terminal for prompts and spinners.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute root command
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
