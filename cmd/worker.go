package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hasanbasri/attendance-management/internal/audit"
	auditPostgres "github.com/hasanbasri/attendance-management/internal/audit/postgres"
	"github.com/hasanbasri/attendance-management/internal/backup"
	"github.com/hasanbasri/attendance-management/internal/core/events"
	"github.com/hasanbasri/attendance-management/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start standalone workers: the scheduled spreadsheet backup and the event bus monitor.`,
}

// Backup worker command
var backupWorkerCmd = &cobra.Command{
	Use:   "backup",
	Short: "Start the scheduled backup worker",
	Long:  `Run the spreadsheet backup on its configured interval without serving HTTP`,
	Run: func(cmd *cobra.Command, args []string) {
		startBackupWorker()
	},
}

// Event bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus and log every attendance and backup event it sees`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var backupInterval time.Duration

func startBackupWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.LoggerWrapper()

	gormDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unwrap sql.DB: %v\n", err)
		os.Exit(1)
	}

	if backupInterval > 0 {
		config.Backup.Interval = backupInterval
	}

	auditService := audit.NewService(auditPostgres.NewAuditRepository(gormDB), log)
	eventBus := events.NewEventBus(log)
	service, _ := buildBackup(config.Backup, sqlDB, auditService, eventBus, log)
	scheduler := backup.NewScheduler(service, config.Backup.Interval, log)

	log.Info("starting backup worker",
		"interval", config.Backup.Interval,
		"tables", config.Backup.Tables)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		scheduler.Start(ctx)
	}()

	log.Info("backup worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	log.Info("received signal, shutting down backup worker", "signal", sig)
	cancel()
	<-done

	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", "error", err)
	}
	log.Info("backup worker shutdown complete")
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.LoggerWrapper()

	eventBus := events.NewEventBus(log)

	logHandler := func(ctx context.Context, event events.Event) error {
		log.Info("received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	}

	for _, eventType := range []string{
		events.EventTypeStudentAbsent,
		events.EventTypeAttendanceSaved,
		events.EventTypeBackupCompleted,
		events.EventTypeBackupFailed,
	} {
		eventBus.Subscribe(eventType, logHandler)
	}

	log.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("received signal, shutting down event bus", "signal", sig)
	log.Info("event bus shutdown complete")
}

func init() {
	backupWorkerCmd.Flags().DurationVar(&backupInterval, "interval", 0, "Backup interval (overrides config)")

	workerCmd.AddCommand(backupWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
