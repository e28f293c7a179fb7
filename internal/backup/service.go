package backup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hasanbasri/attendance-management/internal"
	"github.com/hasanbasri/attendance-management/internal/auth"
	"github.com/hasanbasri/attendance-management/internal/core/events"
)

type ExporterAPI interface {
	ExportTable(ctx context.Context, table string) ([]byte, int, error)
}

type PusherAPI interface {
	Push(ctx context.Context, table string, csvData []byte) error
}

type AuditRecorder interface {
	Record(ctx context.Context, userID int64, username, action, details string)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type TableResult struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

type RunResult struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Tables     []TableResult `json:"tables"`
	TotalRows  int           `json:"total_rows"`
}

type Service struct {
	exporter ExporterAPI
	pusher   PusherAPI
	tables   []string
	audit    AuditRecorder
	events   EventPublisher
	logger   *slog.Logger
}

func NewService(exporter ExporterAPI, pusher PusherAPI, tables []string, audit AuditRecorder, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		exporter: exporter,
		pusher:   pusher,
		tables:   tables,
		audit:    audit,
		events:   publisher,
		logger:   logger,
	}
}

// Run exports and pushes every configured table. A run is all-or-nothing in
// reporting terms: the first failing table aborts the run so the sheet never
// holds a half backup labelled as complete.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.New().String()
	started := time.Now().UTC()

	s.logger.Info("backup run started", "run_id", runID, "tables", len(s.tables))

	result := &RunResult{
		RunID:     runID,
		StartedAt: started,
		Tables:    make([]TableResult, 0, len(s.tables)),
	}

	for _, table := range s.tables {
		csvData, rows, err := s.exporter.ExportTable(ctx, table)
		if err != nil {
			return nil, s.fail(ctx, runID, fmt.Sprintf("export %s: %v", table, err), err)
		}

		if err := s.pusher.Push(ctx, table, csvData); err != nil {
			return nil, s.fail(ctx, runID, fmt.Sprintf("push %s: %v", table, err), err)
		}

		result.Tables = append(result.Tables, TableResult{Table: table, Rows: rows})
		result.TotalRows += rows
	}

	result.FinishedAt = time.Now().UTC()

	if s.events != nil {
		_ = s.events.Publish(ctx, events.NewBackupCompletedEvent(runID, len(result.Tables), result.TotalRows))
	}
	s.recordAudit(ctx, fmt.Sprintf("backup %s pushed %d tables (%d rows)", runID, len(result.Tables), result.TotalRows))

	s.logger.Info("backup run finished",
		"run_id", runID,
		"tables", len(result.Tables),
		"total_rows", result.TotalRows,
		"duration", result.FinishedAt.Sub(started))

	return result, nil
}

func (s *Service) fail(ctx context.Context, runID, reason string, cause error) error {
	s.logger.Error("backup run failed", "run_id", runID, "reason", reason)
	if s.events != nil {
		_ = s.events.Publish(ctx, events.NewBackupFailedEvent(runID, reason))
	}
	return internal.NewInternalError("backup run failed", cause)
}

func (s *Service) recordAudit(ctx context.Context, details string) {
	if s.audit == nil {
		return
	}
	// Scheduled runs carry no user; they audit as the system.
	userID, username := int64(0), "system"
	if actor, ok := auth.UserFromContext(ctx); ok && actor != nil {
		userID, username = actor.ID, actor.Username
	}
	s.audit.Record(ctx, userID, username, "RUN_BACKUP", details)
}
