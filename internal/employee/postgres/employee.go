package postgres

import (
	"context"
	"errors"

	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-management/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) WithTx(tx *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: tx}
}

func (r *EmployeeRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("User").Preload("Position").Preload("Department")
}

func (r *EmployeeRepository) GetAll(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := r.withRelations(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := r.withRelations(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Omit("User", "Position", "Department").Create(e).Error
}

func (r *EmployeeRepository) Update(ctx context.Context, id int64, changes map[string]any) error {
	return r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).Where("id = ?", id).Updates(changes).Error
}
