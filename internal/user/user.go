package user

import (
	"time"

	userDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/user"
)

// User is the administrative view of an account. PasswordHash never
// serializes; capability flags are exposed as booleans regardless of how the
// store keeps them.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	CanTakeAttendance bool `json:"can_take_attendance"`
	CanManageStudents bool `json:"can_manage_students"`
	CanManageClasses  bool `json:"can_manage_classes"`
	CanManageUsers    bool `json:"can_manage_users"`
	CanDeleteUsers    bool `json:"can_delete_users"`
	CanResetPasswords bool `json:"can_reset_passwords"`
	CanViewLogs       bool `json:"can_view_logs"`
	CanSendEmails     bool `json:"can_send_emails"`
	CanRunBackups     bool `json:"can_run_backups"`
}

func (u *User) IsActiveUser() bool {
	return u.Status == userDatamodel.StatusActive
}

func asFlag(b bool) int16 {
	if b {
		return 1
	}
	return 0
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,

		CanTakeAttendance: asFlag(u.CanTakeAttendance),
		CanManageStudents: asFlag(u.CanManageStudents),
		CanManageClasses:  asFlag(u.CanManageClasses),
		CanManageUsers:    asFlag(u.CanManageUsers),
		CanDeleteUsers:    asFlag(u.CanDeleteUsers),
		CanResetPasswords: asFlag(u.CanResetPasswords),
		CanViewLogs:       asFlag(u.CanViewLogs),
		CanSendEmails:     asFlag(u.CanSendEmails),
		CanRunBackups:     asFlag(u.CanRunBackups),
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,

		CanTakeAttendance: u.CanTakeAttendance != 0,
		CanManageStudents: u.CanManageStudents != 0,
		CanManageClasses:  u.CanManageClasses != 0,
		CanManageUsers:    u.CanManageUsers != 0,
		CanDeleteUsers:    u.CanDeleteUsers != 0,
		CanResetPasswords: u.CanResetPasswords != 0,
		CanViewLogs:       u.CanViewLogs != 0,
		CanSendEmails:     u.CanSendEmails != 0,
		CanRunBackups:     u.CanRunBackups != 0,
	}
}
