package postgres

import (
	"gorm.io/gorm"

	"github.com/hasanbasri/attendance-management/internal/class"
	classDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/class"
)

type ClassRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) class.RepositoryAPI {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) GetAll(activeOnly bool) ([]*classDatamodel.Class, error) {
	var classes []*classDatamodel.Class
	q := r.db.Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&classes).Error
	return classes, err
}

func (r *ClassRepository) GetByID(id int64) (*classDatamodel.Class, error) {
	var c classDatamodel.Class
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClassRepository) GetByName(name string) (*classDatamodel.Class, error) {
	var c classDatamodel.Class
	err := r.db.Where("name = ?", name).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClassRepository) Create(c *classDatamodel.Class) error {
	return r.db.Create(c).Error
}

func (r *ClassRepository) Update(c *classDatamodel.Class) error {
	return r.db.Save(c).Error
}

func (r *ClassRepository) Delete(id int64) error {
	return r.db.Model(&classDatamodel.Class{}).Where("id = ?", id).Update("is_active", false).Error
}
