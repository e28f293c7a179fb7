package class

import (
	"errors"
	"strings"
)

type CreateClassDTO struct {
	Name            string `json:"name"`
	GradeLevel      string `json:"grade_level,omitempty"`
	HomeroomTeacher string `json:"homeroom_teacher,omitempty"`
}

func (dto CreateClassDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("class name is required")
	}
	if len(dto.Name) > 64 {
		return errors.New("class name must be at most 64 characters")
	}
	return nil
}

type UpdateClassDTO struct {
	Name            *string `json:"name,omitempty"`
	GradeLevel      *string `json:"grade_level,omitempty"`
	HomeroomTeacher *string `json:"homeroom_teacher,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

func (dto UpdateClassDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.New("class name cannot be empty")
	}
	return nil
}

type ClassesResponse struct {
	Classes []*Class `json:"classes"`
}
