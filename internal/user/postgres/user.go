package postgres

import (
	"context"
	"errors"

	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: tx}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Update(ctx context.Context, id int64, changes map[string]any) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", id).Updates(changes).Error
}

func (r *UserRepository) CreateEmployee(ctx context.Context, e *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Omit("User", "Position", "Department").Create(e).Error
}
