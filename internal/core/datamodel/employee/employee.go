package employee

import (
	"time"

	departmentDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/department"
	positionDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/position"
	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
)

type Employee struct {
	ID               int64                           `gorm:"primaryKey"`
	UserID           int64                           `gorm:"column:user_id;uniqueIndex;not null"`
	User             *userDatamodel.User             `gorm:"foreignKey:UserID"`
	FirstName        string                          `gorm:"column:first_name;size:100;not null"`
	LastName         string                          `gorm:"column:last_name;size:100;not null"`
	Gender           string                          `gorm:"column:gender;not null"`
	Address          string                          `gorm:"column:address;not null;default:''"`
	EmploymentStatus string                          `gorm:"column:employment_status;not null;default:'active'"`
	PositionID       *int64                          `gorm:"column:position_id;index"`
	Position         *positionDatamodel.Position     `gorm:"foreignKey:PositionID"`
	DepartmentID     *int64                          `gorm:"column:department_id;index"`
	Department       *departmentDatamodel.Department `gorm:"foreignKey:DepartmentID"`
	ProfilePhoto     *string                         `gorm:"column:profile_photo"`
	CreatedAt        time.Time                       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
