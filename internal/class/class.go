package class

import (
	"time"

	classDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/class"
)

type Class struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	GradeLevel      string    `json:"grade_level,omitempty"`
	HomeroomTeacher string    `json:"homeroom_teacher,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func FromDataModel(c *classDatamodel.Class) *Class {
	return &Class{
		ID:              c.ID,
		Name:            c.Name,
		GradeLevel:      c.GradeLevel,
		HomeroomTeacher: c.HomeroomTeacher,
		IsActive:        c.IsActive,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
