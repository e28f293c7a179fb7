package student

import "time"

type Student struct {
	ID            int64     `gorm:"primaryKey"`
	StudentNumber string    `gorm:"column:student_number;uniqueIndex;not null"`
	FullName      string    `gorm:"column:full_name;not null"`
	ClassID       *int64    `gorm:"column:class_id"`
	GuardianName  string    `gorm:"column:guardian_name"`
	GuardianEmail string    `gorm:"column:guardian_email"`
	IsActive      bool      `gorm:"column:is_active;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time `gorm:"column:updated_at;default:now()"`
}

func (Student) TableName() string {
	return "students"
}
