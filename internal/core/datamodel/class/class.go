package class

import "time"

type Class struct {
	ID              int64     `gorm:"primaryKey"`
	Name            string    `gorm:"column:name;uniqueIndex;not null"`
	GradeLevel      string    `gorm:"column:grade_level"`
	HomeroomTeacher string    `gorm:"column:homeroom_teacher"`
	IsActive        bool      `gorm:"column:is_active;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time `gorm:"column:updated_at;default:now()"`
}

func (Class) TableName() string {
	return "classes"
}
