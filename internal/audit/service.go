package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/hasanbasri/attendance-management/internal"
	auditDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/audit"
)

type RepositoryAPI interface {
	Insert(l *auditDatamodel.Log) error
	List(filter ListFilter) ([]*auditDatamodel.Log, error)
}

type ListFilter struct {
	Action string
	UserID int64
	From   *time.Time
	To     *time.Time
	Limit  int
}

const defaultListLimit = 100

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Record writes one audit line. It is fire-and-forget: a failing audit store
// is logged and swallowed so the calling operation never fails over it.
func (s *Service) Record(_ context.Context, userID int64, username, action, details string) {
	err := s.repo.Insert(&auditDatamodel.Log{
		UserID:    userID,
		Username:  username,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("failed to record audit entry", "action", action, "user_id", userID, "error", err)
	}
}

func (s *Service) List(filter ListFilter) ([]*Entry, error) {
	if filter.Limit <= 0 || filter.Limit > 1000 {
		filter.Limit = defaultListLimit
	}

	rows, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list audit entries", "error", err)
		return nil, internal.NewInternalError("failed to list audit entries", err)
	}

	entries := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, FromDataModel(row))
	}
	return entries, nil
}
