package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/user"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// Capability flag names as they appear in the snapshot JSON and the users
// table. Flags are independent; no flag implies another and the admin role
// grants none of them implicitly.
const (
	CapTakeAttendance = "can_take_attendance"
	CapManageStudents = "can_manage_students"
	CapManageClasses  = "can_manage_classes"
	CapManageUsers    = "can_manage_users"
	CapDeleteUsers    = "can_delete_users"
	CapResetPasswords = "can_reset_passwords"
	CapViewLogs       = "can_view_logs"
	CapSendEmails     = "can_send_emails"
	CapRunBackups     = "can_run_backups"
)

var (
	// Unknown username, wrong password and inactive account all surface as
	// this one error so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// The account behind the session is gone or inactive; callers must
	// treat this as a forced logout.
	ErrSessionInvalidated = errors.New("session invalidated")

	// The credential store could not be reached; retryable, and the
	// caller's cached snapshot must be left untouched.
	ErrUpstreamUnavailable = errors.New("credential store unavailable")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Snapshot is the cached copy of a user record handed to clients after
// login or permission refresh. Its JSON layout is the persisted session
// shape: identity fields plus every capability flag as a strict bool.
type Snapshot struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Status   string `json:"status"`

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

// Can reports whether the snapshot carries the named capability flag.
func (s *Snapshot) Can(flag string) bool {
	switch flag {
	case CapTakeAttendance:
		return s.CanTakeAttendance
	case CapManageStudents:
		return s.CanManageStudents
	case CapManageClasses:
		return s.CanManageClasses
	case CapManageUsers:
		return s.CanManageUsers
	case CapDeleteUsers:
		return s.CanDeleteUsers
	case CapResetPasswords:
		return s.CanResetPasswords
	case CapViewLogs:
		return s.CanViewLogs
	case CapSendEmails:
		return s.CanSendEmails
	case CapRunBackups:
		return s.CanRunBackups
	}
	return false
}

// NewSnapshot builds a Snapshot from a credential-store row, coercing the
// legacy 0/1 flag columns into real booleans at this boundary.
func NewSnapshot(u *userDatamodel.User) *Snapshot {
	return &Snapshot{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		Status:   u.Status,

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

func UserFromContext(ctx context.Context) (*Snapshot, bool) {
	u, ok := ctx.Value(ContextUserKey).(*Snapshot)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *Snapshot) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
