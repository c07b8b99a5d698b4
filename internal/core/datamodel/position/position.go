package position

import "time"

type Position struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;size:100;uniqueIndex;not null"`
	RateReguler  float64   `gorm:"column:rate_reguler;not null;default:0"`
	RateOvertime float64   `gorm:"column:rate_overtime;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Position) TableName() string {
	return "positions"
}
