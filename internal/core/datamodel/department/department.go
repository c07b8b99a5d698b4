package department

import "time"

type Department struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;uniqueIndex;not null"`
	Latitude     float64   `gorm:"column:latitude;not null;default:0"`
	Longitude    float64   `gorm:"column:longitude;not null;default:0"`
	RadiusMeters int64     `gorm:"column:radius_meters;not null;default:100"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string {
	return "departments"
}
