package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hasanbasri/attendance-management/internal"
	"github.com/hasanbasri/attendance-management/internal/auth"
	userDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetAll() ([]*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	GetByUsername(username string) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
	Delete(id int64) error
}

// PasswordHasher is satisfied by the auth service so both packages share one
// bcrypt cost setting.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, userID int64, username, action, details string)
}

type Service struct {
	repo   RepositoryAPI
	hasher PasswordHasher
	audit  AuditRecorder
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, audit AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		hasher: hasher,
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

func (s *Service) GetAll() ([]*User, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	existing, err := s.repo.GetByUsername(dto.Username)
	if err != nil {
		s.logger.Error("failed to check username", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateUsername
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	row := &userDatamodel.User{
		Username:     dto.Username,
		Email:        dto.Email,
		FullName:     dto.FullName,
		PasswordHash: hash,
		Role:         dto.Role,
		Status:       userDatamodel.StatusActive,
	}
	applyFlags(row, dto.Flags)

	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create user", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.record(ctx, "CREATE_USER", fmt.Sprintf("created user %s (role %s)", row.Username, row.Role))
	s.logger.Info("user created", "user_id", row.ID, "username", row.Username)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user for update", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update user", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	if dto.Email != nil {
		row.Email = *dto.Email
	}
	if dto.FullName != nil {
		row.FullName = *dto.FullName
	}
	if dto.Role != nil {
		row.Role = *dto.Role
	}
	if dto.Status != nil {
		row.Status = *dto.Status
	}
	applyFlags(row, dto.Flags)

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.record(ctx, "UPDATE_USER", fmt.Sprintf("updated user %s", row.Username))
	return FromDataModel(row), nil
}

// ResetPassword replaces the stored hash. The new password never appears in
// logs, audit details or the response.
func (s *Service) ResetPassword(ctx context.Context, id int64, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user for password reset", "user_id", id, "error", err)
		return internal.NewInternalError("failed to reset password", err)
	}
	if row == nil {
		return internal.ErrUserNotFound
	}

	hash, err := s.hasher.HashPassword(dto.NewPassword)
	if err != nil {
		return internal.NewInternalError("failed to reset password", err)
	}

	row.PasswordHash = hash
	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to store new password hash", "user_id", id, "error", err)
		return internal.NewInternalError("failed to reset password", err)
	}

	s.record(ctx, "RESET_PASSWORD", fmt.Sprintf("reset password for user %s", row.Username))
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	actor, ok := auth.UserFromContext(ctx)
	if ok && actor != nil && actor.ID == id {
		return internal.NewValidationError("cannot delete your own account", internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user for delete", "user_id", id, "error", err)
		return internal.NewInternalError("failed to delete user", err)
	}
	if row == nil {
		return internal.ErrUserNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.record(ctx, "DELETE_USER", fmt.Sprintf("deleted user %s", row.Username))
	s.logger.Info("user deleted", "user_id", id, "username", row.Username)
	return nil
}

func applyFlags(row *userDatamodel.User, flags FlagsDTO) {
	set := func(dst *int16, src *Flag) {
		if src == nil {
			return
		}
		if *src {
			*dst = 1
		} else {
			*dst = 0
		}
	}
	set(&row.CanTakeAttendance, flags.CanTakeAttendance)
	set(&row.CanManageStudents, flags.CanManageStudents)
	set(&row.CanManageClasses, flags.CanManageClasses)
	set(&row.CanManageUsers, flags.CanManageUsers)
	set(&row.CanDeleteUsers, flags.CanDeleteUsers)
	set(&row.CanResetPasswords, flags.CanResetPasswords)
	set(&row.CanViewLogs, flags.CanViewLogs)
	set(&row.CanSendEmails, flags.CanSendEmails)
	set(&row.CanRunBackups, flags.CanRunBackups)
}
