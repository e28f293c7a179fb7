package student

import (
	"errors"
	"strings"
)

type CreateStudentDTO struct {
	StudentNumber string `json:"student_number"`
	FullName      string `json:"full_name"`
	ClassID       *int64 `json:"class_id,omitempty"`
	GuardianName  string `json:"guardian_name,omitempty"`
	GuardianEmail string `json:"guardian_email,omitempty"`
}

func (dto CreateStudentDTO) Validate() error {
	if strings.TrimSpace(dto.StudentNumber) == "" {
		return errors.New("student number is required")
	}
	if strings.TrimSpace(dto.FullName) == "" {
		return errors.New("full name is required")
	}
	if dto.GuardianEmail != "" && !strings.Contains(dto.GuardianEmail, "@") {
		return errors.New("guardian email is invalid")
	}
	if dto.ClassID != nil && *dto.ClassID <= 0 {
		return errors.New("class id is invalid")
	}
	return nil
}

// UpdateStudentDTO is a partial update; nil fields stay untouched. ClassID
// uses a double pointer distinction at the service level: a provided null
// detaches the student from any class.
type UpdateStudentDTO struct {
	FullName      *string `json:"full_name,omitempty"`
	ClassID       *int64  `json:"class_id,omitempty"`
	DetachClass   bool    `json:"detach_class,omitempty"`
	GuardianName  *string `json:"guardian_name,omitempty"`
	GuardianEmail *string `json:"guardian_email,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (dto UpdateStudentDTO) Validate() error {
	if dto.FullName != nil && strings.TrimSpace(*dto.FullName) == "" {
		return errors.New("full name cannot be empty")
	}
	if dto.GuardianEmail != nil && *dto.GuardianEmail != "" && !strings.Contains(*dto.GuardianEmail, "@") {
		return errors.New("guardian email is invalid")
	}
	if dto.ClassID != nil && *dto.ClassID <= 0 {
		return errors.New("class id is invalid")
	}
	if dto.DetachClass && dto.ClassID != nil {
		return errors.New("cannot set and detach class in the same request")
	}
	return nil
}

type StudentsResponse struct {
	Students []*Student `json:"students"`
}
