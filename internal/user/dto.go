package user

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	userDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/user"
)

// Flag is a capability value on the wire. Legacy admin tooling sends 0/1
// integers where newer clients send booleans; both decode to a strict bool.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return fmt.Errorf("flag must be a boolean or 0/1, got %s", data)
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

type FlagsDTO struct {
	CanTakeAttendance *Flag `json:"can_take_attendance,omitempty"`
	CanManageStudents *Flag `json:"can_manage_students,omitempty"`
	CanManageClasses  *Flag `json:"can_manage_classes,omitempty"`
	CanManageUsers    *Flag `json:"can_manage_users,omitempty"`
	CanDeleteUsers    *Flag `json:"can_delete_users,omitempty"`
	CanResetPasswords *Flag `json:"can_reset_passwords,omitempty"`
	CanViewLogs       *Flag `json:"can_view_logs,omitempty"`
	CanSendEmails     *Flag `json:"can_send_emails,omitempty"`
	CanRunBackups     *Flag `json:"can_run_backups,omitempty"`
}

type CreateUserDTO struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Password string   `json:"password"`
	Role     string   `json:"role"`
	Flags    FlagsDTO `json:"flags"`
}

func validRole(role string) bool {
	switch role {
	case userDatamodel.RoleAdmin, userDatamodel.RoleStaff, userDatamodel.RoleViewer:
		return true
	}
	return false
}

func (dto CreateUserDTO) Validate() error {
	if strings.TrimSpace(dto.Username) == "" {
		return errors.New("username is required")
	}
	if len(dto.Username) > 64 {
		return errors.New("username must be at most 64 characters")
	}
	if strings.TrimSpace(dto.FullName) == "" {
		return errors.New("full name is required")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if dto.Email != "" && !strings.Contains(dto.Email, "@") {
		return errors.New("email is invalid")
	}
	if !validRole(dto.Role) {
		return errors.New("role must be admin, staff or viewer")
	}
	return nil
}

// UpdateUserDTO carries a partial update: nil fields are left untouched.
type UpdateUserDTO struct {
	Email    *string  `json:"email,omitempty"`
	FullName *string  `json:"full_name,omitempty"`
	Role     *string  `json:"role,omitempty"`
	Status   *string  `json:"status,omitempty"`
	Flags    FlagsDTO `json:"flags"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.FullName != nil && strings.TrimSpace(*dto.FullName) == "" {
		return errors.New("full name cannot be empty")
	}
	if dto.Email != nil && *dto.Email != "" && !strings.Contains(*dto.Email, "@") {
		return errors.New("email is invalid")
	}
	if dto.Role != nil && !validRole(*dto.Role) {
		return errors.New("role must be admin, staff or viewer")
	}
	if dto.Status != nil && *dto.Status != userDatamodel.StatusActive && *dto.Status != userDatamodel.StatusInactive {
		return errors.New("status must be active or inactive")
	}
	return nil
}

type ResetPasswordDTO struct {
	NewPassword string `json:"new_password"`
}

func (dto ResetPasswordDTO) Validate() error {
	if len(dto.NewPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

type UsersResponse struct {
	Users []*User `json:"users"`
}
