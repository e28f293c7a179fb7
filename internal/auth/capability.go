package auth

import (
	"log/slog"
	"net/http"
)

// CapabilityGuard builds route middleware over the snapshot's boolean
// capability flags. Flags are checked individually; there is no role
// shortcut and no flag implies another.
type CapabilityGuard struct {
	logger *slog.Logger
}

func NewCapabilityGuard(logger *slog.Logger) *CapabilityGuard {
	return &CapabilityGuard{logger: logger}
}

func (g *CapabilityGuard) Require(flag string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				g.logger.Warn("capability check failed: user not found in context", "capability", flag)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.Can(flag) {
				g.logger.WarnContext(r.Context(), "access denied: missing capability",
					"user_id", user.ID,
					"capability", flag)
				http.Error(w, "Forbidden: missing capability", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (g *CapabilityGuard) RequireTakeAttendance() func(http.Handler) http.Handler {
	return g.Require(CapTakeAttendance)
}

func (g *CapabilityGuard) RequireManageStudents() func(http.Handler) http.Handler {
	return g.Require(CapManageStudents)
}

func (g *CapabilityGuard) RequireManageClasses() func(http.Handler) http.Handler {
	return g.Require(CapManageClasses)
}

func (g *CapabilityGuard) RequireManageUsers() func(http.Handler) http.Handler {
	return g.Require(CapManageUsers)
}

func (g *CapabilityGuard) RequireDeleteUsers() func(http.Handler) http.Handler {
	return g.Require(CapDeleteUsers)
}

func (g *CapabilityGuard) RequireResetPasswords() func(http.Handler) http.Handler {
	return g.Require(CapResetPasswords)
}

func (g *CapabilityGuard) RequireViewLogs() func(http.Handler) http.Handler {
	return g.Require(CapViewLogs)
}

func (g *CapabilityGuard) RequireSendEmails() func(http.Handler) http.Handler {
	return g.Require(CapSendEmails)
}

func (g *CapabilityGuard) RequireRunBackups() func(http.Handler) http.Handler {
	return g.Require(CapRunBackups)
}
