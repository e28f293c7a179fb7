package audit

import (
	"time"

	auditDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/audit"
)

type Entry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(l *auditDatamodel.Log) *Entry {
	return &Entry{
		ID:        l.ID,
		UserID:    l.UserID,
		Username:  l.Username,
		Action:    l.Action,
		Details:   l.Details,
		CreatedAt: l.CreatedAt,
	}
}

type EntriesResponse struct {
	Entries []*Entry `json:"entries"`
}
