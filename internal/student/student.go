package student

import (
	"time"

	studentDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/student"
)

type Student struct {
	ID            int64     `json:"id"`
	StudentNumber string    `json:"student_number"`
	FullName      string    `json:"full_name"`
	ClassID       *int64    `json:"class_id,omitempty"`
	GuardianName  string    `json:"guardian_name,omitempty"`
	GuardianEmail string    `json:"guardian_email,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToDataModel(s *Student) *studentDatamodel.Student {
	return &studentDatamodel.Student{
		ID:            s.ID,
		StudentNumber: s.StudentNumber,
		FullName:      s.FullName,
		ClassID:       s.ClassID,
		GuardianName:  s.GuardianName,
		GuardianEmail: s.GuardianEmail,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func FromDataModel(s *studentDatamodel.Student) *Student {
	return &Student{
		ID:            s.ID,
		StudentNumber: s.StudentNumber,
		FullName:      s.FullName,
		ClassID:       s.ClassID,
		GuardianName:  s.GuardianName,
		GuardianEmail: s.GuardianEmail,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
