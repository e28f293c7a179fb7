package attendance

import (
	"time"

	attendanceDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/attendance"
)

// DateLayout is the wire format for attendance dates. Records are keyed by
// calendar day; time-of-day is always truncated.
const DateLayout = "2006-01-02"

type Record struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	ClassID   int64     `json:"class_id"`
	AttDate   string    `json:"att_date"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	MarkedBy  int64     `json:"marked_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromDataModel(r *attendanceDatamodel.Record) *Record {
	return &Record{
		ID:        r.ID,
		StudentID: r.StudentID,
		ClassID:   r.ClassID,
		AttDate:   r.AttDate.Format(DateLayout),
		Status:    r.Status,
		Note:      r.Note,
		MarkedBy:  r.MarkedBy,
		UpdatedAt: r.UpdatedAt,
	}
}

// SheetRow is one roster line of a class sheet: the student plus their mark
// for the day, if any.
type SheetRow struct {
	StudentID     int64  `json:"student_id"`
	StudentNumber string `json:"student_number"`
	FullName      string `json:"full_name"`
	Status        string `json:"status,omitempty"`
	Note          string `json:"note,omitempty"`
}

type Sheet struct {
	ClassID int64      `json:"class_id"`
	AttDate string     `json:"att_date"`
	Rows    []SheetRow `json:"rows"`
}

// Summary aggregates one class over a date range.
type Summary struct {
	ClassID int64  `json:"class_id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Present int64  `json:"present"`
	Absent  int64  `json:"absent"`
	Late    int64  `json:"late"`
	Excused int64  `json:"excused"`
}
