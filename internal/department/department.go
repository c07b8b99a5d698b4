package department

import (
	"time"

	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	departmentDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/department"
)

// Department is an office location; attendance check-ins must fall within RadiusMeters of it.
type Department struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters int64     `json:"radius_meters"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var Rules = validation.RuleSet{
	{Field: "name", Presence: validation.Required, Kind: validation.KindString, MaxLength: 255, Unique: &validation.Ref{Table: "departments", Column: "name"}},
	{Field: "latitude", Presence: validation.Required, Kind: validation.KindNumeric},
	{Field: "longitude", Presence: validation.Required, Kind: validation.KindNumeric},
	{Field: "radius_meters", Presence: validation.Required, Kind: validation.KindInteger, Min: validation.MinValue(1)},
}

func newDataModel(fields validation.Fields) *departmentDatamodel.Department {
	d := &departmentDatamodel.Department{}
	d.Name, _ = fields["name"].(string)
	d.Latitude, _ = fields["latitude"].(float64)
	d.Longitude, _ = fields["longitude"].(float64)
	d.RadiusMeters, _ = fields["radius_meters"].(int64)
	return d
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	if d == nil {
		return nil
	}
	return &Department{
		ID:           d.ID,
		Name:         d.Name,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		RadiusMeters: d.RadiusMeters,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
