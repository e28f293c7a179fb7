package postgres

import (
	"gorm.io/gorm"

	studentDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/student"
	"github.com/hasanbasri/attendance-management/internal/student"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) student.RepositoryAPI {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) GetAll(activeOnly bool) ([]*studentDatamodel.Student, error) {
	var students []*studentDatamodel.Student
	q := r.db.Order("full_name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&students).Error
	return students, err
}

func (r *StudentRepository) GetByID(id int64) (*studentDatamodel.Student, error) {
	var s studentDatamodel.Student
	err := r.db.Where("id = ?", id).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepository) GetByStudentNumber(number string) (*studentDatamodel.Student, error) {
	var s studentDatamodel.Student
	err := r.db.Where("student_number = ?", number).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepository) GetByClass(classID int64) ([]*studentDatamodel.Student, error) {
	var students []*studentDatamodel.Student
	err := r.db.
		Where("class_id = ? AND is_active = ?", classID, true).
		Order("full_name ASC").
		Find(&students).Error
	return students, err
}

func (r *StudentRepository) Create(s *studentDatamodel.Student) error {
	return r.db.Create(s).Error
}

func (r *StudentRepository) Update(s *studentDatamodel.Student) error {
	return r.db.Save(s).Error
}

// Delete deactivates instead of removing so attendance history keeps its
// student reference.
func (r *StudentRepository) Delete(id int64) error {
	return r.db.Model(&studentDatamodel.Student{}).Where("id = ?", id).Update("is_active", false).Error
}
