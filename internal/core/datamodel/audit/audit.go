package audit

import "time"

type Log struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id"`
	Username  string    `gorm:"column:username"`
	Action    string    `gorm:"column:action;not null;index"`
	Details   string    `gorm:"column:details"`
	CreatedAt time.Time `gorm:"column:created_at;default:now();index"`
}

func (Log) TableName() string {
	return "audit_logs"
}
