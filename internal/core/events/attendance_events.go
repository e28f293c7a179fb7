package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeStudentAbsent   = "attendance.student_absent"
	EventTypeAttendanceSaved = "attendance.sheet_saved"
	EventTypeBackupCompleted = "backup.completed"
	EventTypeBackupFailed    = "backup.failed"
)

type StudentAbsentEvent struct {
	BaseEvent
	StudentID int64     `json:"student_id"`
	ClassID   int64     `json:"class_id"`
	AttDate   time.Time `json:"att_date"`
	Status    string    `json:"status"`
	MarkedBy  int64     `json:"marked_by"`
}

func NewStudentAbsentEvent(studentID, classID int64, attDate time.Time, status string, markedBy int64) *StudentAbsentEvent {
	return &StudentAbsentEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeStudentAbsent,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"student_id": studentID,
				"class_id":   classID,
				"att_date":   attDate,
				"status":     status,
				"marked_by":  markedBy,
			},
		},
		StudentID: studentID,
		ClassID:   classID,
		AttDate:   attDate,
		Status:    status,
		MarkedBy:  markedBy,
	}
}

type AttendanceSavedEvent struct {
	BaseEvent
	ClassID  int64     `json:"class_id"`
	AttDate  time.Time `json:"att_date"`
	Marked   int       `json:"marked"`
	MarkedBy int64     `json:"marked_by"`
}

func NewAttendanceSavedEvent(classID int64, attDate time.Time, marked int, markedBy int64) *AttendanceSavedEvent {
	return &AttendanceSavedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAttendanceSaved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"class_id":  classID,
				"att_date":  attDate,
				"marked":    marked,
				"marked_by": markedBy,
			},
		},
		ClassID:  classID,
		AttDate:  attDate,
		Marked:   marked,
		MarkedBy: markedBy,
	}
}

type BackupCompletedEvent struct {
	BaseEvent
	RunID    string `json:"run_id"`
	Tables   int    `json:"tables"`
	RowCount int    `json:"row_count"`
}

func NewBackupCompletedEvent(runID string, tables, rowCount int) *BackupCompletedEvent {
	return &BackupCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBackupCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"run_id":    runID,
				"tables":    tables,
				"row_count": rowCount,
			},
		},
		RunID:    runID,
		Tables:   tables,
		RowCount: rowCount,
	}
}

type BackupFailedEvent struct {
	BaseEvent
	RunID  string `json:"run_id"`
	Reason string `json:"reason"`
}

func NewBackupFailedEvent(runID, reason string) *BackupFailedEvent {
	return &BackupFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBackupFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"run_id": runID,
				"reason": reason,
			},
		},
		RunID:  runID,
		Reason: reason,
	}
}
