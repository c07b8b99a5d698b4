package postgres

import (
	"context"
	"errors"

	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	positionDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/position"
	"github.com/frahmantamala/hr-management/internal/position"
	"gorm.io/gorm"
)

type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) position.RepositoryAPI {
	return &PositionRepository{db: db}
}

func (r *PositionRepository) WithTx(tx *gorm.DB) position.RepositoryAPI {
	return &PositionRepository{db: tx}
}

func (r *PositionRepository) GetAll(ctx context.Context) ([]*positionDatamodel.Position, error) {
	var positions []*positionDatamodel.Position
	err := r.db.WithContext(ctx).Order("name ASC").Find(&positions).Error
	return positions, err
}

func (r *PositionRepository) GetByID(ctx context.Context, id int64) (*positionDatamodel.Position, error) {
	var p positionDatamodel.Position
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PositionRepository) Create(ctx context.Context, p *positionDatamodel.Position) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PositionRepository) Update(ctx context.Context, id int64, changes map[string]any) error {
	return r.db.WithContext(ctx).Model(&positionDatamodel.Position{}).Where("id = ?", id).Updates(changes).Error
}

func (r *PositionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&positionDatamodel.Position{}, id).Error
}

func (r *PositionRepository) GetEmployeeByUserID(ctx context.Context, userID int64) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Preload("Position").Where("user_id = ?", userID).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}
