package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hasanbasri/attendance-management/internal"
	"github.com/hasanbasri/attendance-management/internal/attendance"
	attendancePostgres "github.com/hasanbasri/attendance-management/internal/attendance/postgres"
	"github.com/hasanbasri/attendance-management/internal/audit"
	auditPostgres "github.com/hasanbasri/attendance-management/internal/audit/postgres"
	"github.com/hasanbasri/attendance-management/internal/auth"
	authPostgres "github.com/hasanbasri/attendance-management/internal/auth/postgres"
	"github.com/hasanbasri/attendance-management/internal/backup"
	"github.com/hasanbasri/attendance-management/internal/class"
	classPostgres "github.com/hasanbasri/attendance-management/internal/class/postgres"
	"github.com/hasanbasri/attendance-management/internal/core/events"
	"github.com/hasanbasri/attendance-management/internal/notification"
	"github.com/hasanbasri/attendance-management/internal/student"
	studentPostgres "github.com/hasanbasri/attendance-management/internal/student/postgres"
	"github.com/hasanbasri/attendance-management/internal/transport"
	"github.com/hasanbasri/attendance-management/internal/transport/rest"
	"github.com/hasanbasri/attendance-management/internal/transport/swagger"
	"github.com/hasanbasri/attendance-management/internal/user"
	userPostgres "github.com/hasanbasri/attendance-management/internal/user/postgres"
	"github.com/hasanbasri/attendance-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config    *internal.Config
	DB        *gorm.DB
	Router    *chi.Mux
	Logger    *slog.Logger
	Scheduler *backup.Scheduler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	if deps.Scheduler != nil {
		go deps.Scheduler.Start(schedulerCtx)
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		stopScheduler()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if sqlDB, err := deps.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				deps.Logger.Error("database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Observability.Logging.Format == "json" {
		logger.Init("production")
	} else {
		logger.Init("development")
	}
	log := logger.LoggerWrapper()

	if err := swagger.ValidateSpecFile("./api/openapi.yml"); err != nil {
		log.Warn("openapi spec not loadable, swagger UI may be degraded", "error", err)
	}

	gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap sql.DB: %w", err)
	}

	baseHandler := transport.NewBaseHandler(log)
	eventBus := events.NewEventBus(log)

	// Audit first: almost every service records through it.
	auditService := audit.NewService(auditPostgres.NewAuditRepository(gormDB), log)
	auditHandler := audit.NewHandler(baseHandler, auditService)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), auditService, tokenGen, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)
	guard := auth.NewCapabilityGuard(log)

	userService := user.NewService(userPostgres.NewUserRepository(gormDB), authService, auditService, log)
	userHandler := user.NewHandler(baseHandler, userService)

	classService := class.NewService(classPostgres.NewClassRepository(gormDB), auditService, log)
	classHandler := class.NewHandler(baseHandler, classService)

	studentRepo := studentPostgres.NewStudentRepository(gormDB)
	studentService := student.NewService(studentRepo, classService, auditService, log)
	studentHandler := student.NewHandler(baseHandler, studentService)

	attendanceService := attendance.NewService(
		attendancePostgres.NewAttendanceRepository(gormDB),
		studentRepo,
		classService,
		auditService,
		eventBus,
		log,
	)
	attendanceHandler := attendance.NewHandler(baseHandler, attendanceService)

	notificationService := notification.NewService(buildMailer(config.Mail, log), studentRepo, auditService, log)
	notificationHandler := notification.NewHandler(baseHandler, notificationService)
	eventBus.Subscribe(events.EventTypeStudentAbsent, notificationService.HandleStudentAbsent)

	backupService, scheduler := buildBackup(config.Backup, sqlDB, auditService, eventBus, log)
	backupHandler := backup.NewHandler(baseHandler, backupService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, sqlDB, rest.Handlers{
		Auth:         authHandler,
		User:         userHandler,
		Student:      studentHandler,
		Class:        classHandler,
		Attendance:   attendanceHandler,
		Audit:        auditHandler,
		Notification: notificationHandler,
		Backup:       backupHandler,
	}, guard, log)

	return &Dependencies{
		Config:    config,
		DB:        gormDB,
		Router:    router,
		Logger:    log,
		Scheduler: scheduler,
	}, nil
}

func buildMailer(cfg internal.MailConfig, log *slog.Logger) notification.Mailer {
	if cfg.Provider == "sendgrid" && cfg.SendgridKey != "" {
		return notification.NewSendgridMailer(cfg.SendgridKey, cfg.FromName, cfg.FromAddress, cfg.SubjPrefix, log)
	}
	return notification.NewConsoleMailer(log)
}

func buildBackup(cfg internal.BackupConfig, sqlDB *sql.DB, auditService *audit.Service, eventBus *events.EventBus, log *slog.Logger) (*backup.Service, *backup.Scheduler) {
	exporter := backup.NewExporter(sqlx.NewDb(sqlDB, "pgx"))
	pusher := backup.NewSheetsClient(cfg.SheetEndpoint, cfg.APIKey, cfg.SpreadsheetID, cfg.PushTimeout, log)
	service := backup.NewService(exporter, pusher, cfg.Tables, auditService, eventBus, log)

	var scheduler *backup.Scheduler
	if cfg.Enabled {
		scheduler = backup.NewScheduler(service, cfg.Interval, log)
	}
	return service, scheduler
}

// initDB opens the connection pool through gorm over the pgx driver.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gormPostgres.Open(cfg.Source), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return gormDB, nil
}
