package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/hasanbasri/attendance-management/internal/auth"
	userDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.Repository {
	return &Repository{db: db}
}

// FindUserByUsername returns the row for any status; the service decides
// what an inactive account means. (nil, nil) when no row matches.
func (r *Repository) FindUserByUsername(username string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// FindActiveUserByID filters to active status only, so a deactivated or
// deleted account looks identical to a missing one.
func (r *Repository) FindActiveUserByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ? AND status = ?", id, userDatamodel.StatusActive).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
