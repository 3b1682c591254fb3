package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/config"
	"github.com/cmlabs-hris/campus-attendance/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/campus-attendance/internal/handler/http"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/clock"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/cron"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/campus-attendance/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/campus-attendance/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/campus-attendance/internal/service/auth"
	scheduleService "github.com/cmlabs-hris/campus-attendance/internal/service/schedule"
	settingService "github.com/cmlabs-hris/campus-attendance/internal/service/setting"
	"github.com/spf13/pflag"
)

const (
	appName         = "campus-attendance"
	version         = "v1.0.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	envFile := pflag.String("env-file", ".env", "path to the environment file")
	migrateOnStart := pflag.Bool("migrate", true, "apply pending database migrations on start")
	seed := pflag.Bool("seed", false, "insert the default geofence, schedules and users when missing")
	pflag.Parse()

	if err := run(*envFile, *migrateOnStart, *seed); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(envFile string, migrateOnStart, seed bool) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if migrateOnStart {
		if err := database.RunMigrations(db); err != nil {
			return err
		}
	}

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	settingRepo := postgresql.NewSettingRepository(db)

	if seed {
		defaults, err := fixtures.Default()
		if err != nil {
			return err
		}
		if _, err := fixtures.Apply(ctx, fixtures.Repositories{
			Setting:  settingRepo,
			Schedule: scheduleRepo,
			User:     userRepo,
		}, defaults); err != nil {
			return err
		}
	}

	clk := clock.New(loc)
	hub := sse.NewHub()
	resolver := scheduleService.Resolver{Policy: cfg.Attendance.ConflictPolicy}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	settingSvc := settingService.NewSettingService(settingRepo)
	scheduleSvc := scheduleService.NewScheduleService(scheduleRepo, resolver, clk)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		attendanceRepo,
		scheduleRepo,
		userRepo,
		settingSvc,
		attendanceService.NewReportedLocation(),
		attendanceService.Engine{Resolver: resolver},
		clk,
		hub,
		attendanceService.StatsOptions{LateCountsAsPresent: cfg.Attendance.LateCountsAsPresent},
	)

	scheduler := cron.NewScheduler()
	cron.NewSettingJobs(settingSvc, cfg.Attendance.SettingRefreshInterval).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        appName,
			Version:        version,
			Env:            cfg.App.Env,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		JWTService,
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(authService),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, JWTService, hub),
			Schedule:   appHTTP.NewScheduleHandler(scheduleSvc),
			Setting:    appHTTP.NewSettingHandler(settingSvc),
		},
	)

	// No WriteTimeout: the attendance stream stays open.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", srv.Addr, "env", cfg.App.Env, "timezone", cfg.App.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
