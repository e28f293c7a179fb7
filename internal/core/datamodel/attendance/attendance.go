package attendance

import "time"

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

// Record carries one student's attendance for one class on one day.
// (student_id, class_id, att_date) is unique; bulk marking upserts on it.
type Record struct {
	ID        int64     `gorm:"primaryKey"`
	StudentID int64     `gorm:"column:student_id;not null;uniqueIndex:idx_attendance_day"`
	ClassID   int64     `gorm:"column:class_id;not null;uniqueIndex:idx_attendance_day"`
	AttDate   time.Time `gorm:"column:att_date;not null;uniqueIndex:idx_attendance_day"`
	Status    string    `gorm:"column:status;not null"`
	Note      string    `gorm:"column:note"`
	MarkedBy  int64     `gorm:"column:marked_by"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Record) TableName() string {
	return "attendance_records"
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}
