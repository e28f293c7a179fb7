package student

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hasanbasri/attendance-management/internal"
	"github.com/hasanbasri/attendance-management/internal/auth"
	studentDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/student"
)

type RepositoryAPI interface {
	GetAll(activeOnly bool) ([]*studentDatamodel.Student, error)
	GetByID(id int64) (*studentDatamodel.Student, error)
	GetByStudentNumber(number string) (*studentDatamodel.Student, error)
	GetByClass(classID int64) ([]*studentDatamodel.Student, error)
	Create(s *studentDatamodel.Student) error
	Update(s *studentDatamodel.Student) error
	Delete(id int64) error
}

// ClassChecker verifies a class exists before a student is attached to it.
type ClassChecker interface {
	Exists(classID int64) (bool, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, userID int64, username, action, details string)
}

type Service struct {
	repo    RepositoryAPI
	classes ClassChecker
	audit   AuditRecorder
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, classes ClassChecker, audit AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		classes: classes,
		audit:   audit,
		logger:  logger,
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

func (s *Service) checkClass(classID int64) error {
	if s.classes == nil {
		return nil
	}
	exists, err := s.classes.Exists(classID)
	if err != nil {
		return internal.NewInternalError("failed to verify class", err)
	}
	if !exists {
		return internal.ErrClassNotFound
	}
	return nil
}

func (s *Service) GetAll(activeOnly bool) ([]*Student, error) {
	rows, err := s.repo.GetAll(activeOnly)
	if err != nil {
		s.logger.Error("failed to list students", "error", err)
		return nil, internal.NewInternalError("failed to list students", err)
	}

	students := make([]*Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, FromDataModel(row))
	}
	return students, nil
}

func (s *Service) GetByID(id int64) (*Student, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get student", "student_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get student", err)
	}
	if row == nil {
		return nil, internal.ErrStudentNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByClass(classID int64) ([]*Student, error) {
	if err := s.checkClass(classID); err != nil {
		return nil, err
	}

	rows, err := s.repo.GetByClass(classID)
	if err != nil {
		s.logger.Error("failed to list class students", "class_id", classID, "error", err)
		return nil, internal.NewInternalError("failed to list students", err)
	}

	students := make([]*Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, FromDataModel(row))
	}
	return students, nil
}

func (s *Service) Create(ctx context.Context, dto CreateStudentDTO) (*Student, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	existing, err := s.repo.GetByStudentNumber(dto.StudentNumber)
	if err != nil {
		s.logger.Error("failed to check student number", "student_number", dto.StudentNumber, "error", err)
		return nil, internal.NewInternalError("failed to register student", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateStudent
	}

	if dto.ClassID != nil {
		if err := s.checkClass(*dto.ClassID); err != nil {
			return nil, err
		}
	}

	row := &studentDatamodel.Student{
		StudentNumber: dto.StudentNumber,
		FullName:      dto.FullName,
		ClassID:       dto.ClassID,
		GuardianName:  dto.GuardianName,
		GuardianEmail: dto.GuardianEmail,
		IsActive:      true,
	}

	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to register student", "student_number", dto.StudentNumber, "error", err)
		return nil, internal.NewInternalError("failed to register student", err)
	}

	s.record(ctx, "CREATE_STUDENT", fmt.Sprintf("registered student %s (%s)", row.FullName, row.StudentNumber))
	s.logger.Info("student registered", "student_id", row.ID, "student_number", row.StudentNumber)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateStudentDTO) (*Student, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get student for update", "student_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update student", err)
	}
	if row == nil {
		return nil, internal.ErrStudentNotFound
	}

	if dto.FullName != nil {
		row.FullName = *dto.FullName
	}
	if dto.ClassID != nil {
		if err := s.checkClass(*dto.ClassID); err != nil {
			return nil, err
		}
		row.ClassID = dto.ClassID
	}
	if dto.DetachClass {
		row.ClassID = nil
	}
	if dto.GuardianName != nil {
		row.GuardianName = *dto.GuardianName
	}
	if dto.GuardianEmail != nil {
		row.GuardianEmail = *dto.GuardianEmail
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update student", "student_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update student", err)
	}

	s.record(ctx, "UPDATE_STUDENT", fmt.Sprintf("updated student %s", row.StudentNumber))
	return FromDataModel(row), nil
}

// Delete deactivates the student; attendance history stays intact.
func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get student for delete", "student_id", id, "error", err)
		return internal.NewInternalError("failed to remove student", err)
	}
	if row == nil {
		return internal.ErrStudentNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to remove student", "student_id", id, "error", err)
		return internal.NewInternalError("failed to remove student", err)
	}

	s.record(ctx, "DELETE_STUDENT", fmt.Sprintf("removed student %s", row.StudentNumber))
	return nil
}
