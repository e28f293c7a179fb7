package user

import "time"

const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleViewer = "viewer"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is the credential-store row. Capability flags are persisted as
// smallint 0/1 (the legacy schema stored them that way); they are coerced
// to real booleans the moment a snapshot is built, never downstream.
type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex;not null"`
	Email        string    `gorm:"column:email"`
	FullName     string    `gorm:"column:full_name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null;default:'staff'"`
	Status       string    `gorm:"column:status;not null;default:'active'"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`

	CanTakeAttendance int16 `gorm:"column:can_take_attendance;default:0"`
	CanManageStudents int16 `gorm:"column:can_manage_students;default:0"`
	CanManageClasses  int16 `gorm:"column:can_manage_classes;default:0"`
	CanManageUsers    int16 `gorm:"column:can_manage_users;default:0"`
	CanDeleteUsers    int16 `gorm:"column:can_delete_users;default:0"`
	CanResetPasswords int16 `gorm:"column:can_reset_passwords;default:0"`
	CanViewLogs       int16 `gorm:"column:can_view_logs;default:0"`
	CanSendEmails     int16 `gorm:"column:can_send_emails;default:0"`
	CanRunBackups     int16 `gorm:"column:can_run_backups;default:0"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
