package class

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hasanbasri/attendance-management/internal"
	"github.com/hasanbasri/attendance-management/internal/auth"
	classDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/class"
)

type RepositoryAPI interface {
	GetAll(activeOnly bool) ([]*classDatamodel.Class, error)
	GetByID(id int64) (*classDatamodel.Class, error)
	GetByName(name string) (*classDatamodel.Class, error)
	Create(c *classDatamodel.Class) error
	Update(c *classDatamodel.Class) error
	Delete(id int64) error
}

type AuditRecorder interface {
	Record(ctx context.Context, userID int64, username, action, details string)
}

type Service struct {
	repo   RepositoryAPI
	audit  AuditRecorder
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, audit AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		audit:  audit,
		logger: logger,
	}
}

func (s *Service) record(ctx context.Context, action, details string) {
	if s.audit == nil {
		return
	}
	actor, ok := auth.UserFromContext(ctx)
	if !ok || actor == nil {
		return
	}
	s.audit.Record(ctx, actor.ID, actor.Username, action, details)
}

// Exists satisfies the class checks other services run before attaching
// records to a class. Inactive classes do not count.
func (s *Service) Exists(classID int64) (bool, error) {
	row, err := s.repo.GetByID(classID)
	if err != nil {
		return false, err
	}
	return row != nil && row.IsActive, nil
}

func (s *Service) GetAll(activeOnly bool) ([]*Class, error) {
	rows, err := s.repo.GetAll(activeOnly)
	if err != nil {
		s.logger.Error("failed to list classes", "error", err)
		return nil, internal.NewInternalError("failed to list classes", err)
	}

	classes := make([]*Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, FromDataModel(row))
	}
	return classes, nil
}

func (s *Service) GetByID(id int64) (*Class, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get class", "class_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get class", err)
	}
	if row == nil {
		return nil, internal.ErrClassNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CreateClassDTO) (*Class, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	existing, err := s.repo.GetByName(dto.Name)
	if err != nil {
		s.logger.Error("failed to check class name", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("failed to create class", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("class name already exists", internal.ErrCodeValidationFailed)
	}

	row := &classDatamodel.Class{
		Name:            dto.Name,
		GradeLevel:      dto.GradeLevel,
		HomeroomTeacher: dto.HomeroomTeacher,
		IsActive:        true,
	}

	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create class", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("failed to create class", err)
	}

	s.record(ctx, "CREATE_CLASS", fmt.Sprintf("created class %s", row.Name))
	s.logger.Info("class created", "class_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateClassDTO) (*Class, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get class for update", "class_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update class", err)
	}
	if row == nil {
		return nil, internal.ErrClassNotFound
	}

	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.GradeLevel != nil {
		row.GradeLevel = *dto.GradeLevel
	}
	if dto.HomeroomTeacher != nil {
		row.HomeroomTeacher = *dto.HomeroomTeacher
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update class", "class_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update class", err)
	}

	s.record(ctx, "UPDATE_CLASS", fmt.Sprintf("updated class %s", row.Name))
	return FromDataModel(row), nil
}

// Delete deactivates the class. Member students keep their class_id so a
// reactivated class gets its roster back.
func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get class for delete", "class_id", id, "error", err)
		return internal.NewInternalError("failed to remove class", err)
	}
	if row == nil {
		return internal.ErrClassNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to remove class", "class_id", id, "error", err)
		return internal.NewInternalError("failed to remove class", err)
	}

	s.record(ctx, "DELETE_CLASS", fmt.Sprintf("removed class %s", row.Name))
	return nil
}
