package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hasanbasri/attendance-management/internal/attendance"
	attendanceDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/attendance"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.RepositoryAPI {
	return &AttendanceRepository{db: db}
}

// UpsertBatch writes a sheet in one statement. Conflicts on the
// (student_id, class_id, att_date) key update the mark in place.
func (r *AttendanceRepository) UpsertBatch(records []*attendanceDatamodel.Record) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_id"}, {Name: "class_id"}, {Name: "att_date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"status", "note", "marked_by", "updated_at"}),
	}).Create(&records).Error
}

func (r *AttendanceRepository) GetByClassAndDate(classID int64, date time.Time) ([]*attendanceDatamodel.Record, error) {
	var records []*attendanceDatamodel.Record
	err := r.db.
		Where("class_id = ? AND att_date = ?", classID, date).
		Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) GetByStudent(studentID int64, from, to time.Time) ([]*attendanceDatamodel.Record, error) {
	var records []*attendanceDatamodel.Record
	err := r.db.
		Where("student_id = ? AND att_date BETWEEN ? AND ?", studentID, from, to).
		Order("att_date ASC").
		Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) CountByStatus(classID int64, from, to time.Time) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	err := r.db.
		Model(&attendanceDatamodel.Record{}).
		Select("status, count(*) as count").
		Where("class_id = ? AND att_date BETWEEN ? AND ?", classID, from, to).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
