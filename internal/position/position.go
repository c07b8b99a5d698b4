package position

import (
	"time"

	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	positionDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/position"
)

type Position struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	RateReguler  float64   `json:"rate_reguler"`
	RateOvertime float64   `json:"rate_overtime"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var Rules = validation.RuleSet{
	{Field: "name", Presence: validation.Required, Kind: validation.KindString, MaxLength: 100, Unique: &validation.Ref{Table: "positions", Column: "name"}},
	{Field: "rate_reguler", Presence: validation.Required, Kind: validation.KindNumeric, Min: validation.MinValue(0)},
	{Field: "rate_overtime", Presence: validation.Required, Kind: validation.KindNumeric, Min: validation.MinValue(0)},
}

func newDataModel(fields validation.Fields) *positionDatamodel.Position {
	p := &positionDatamodel.Position{}
	p.Name, _ = fields["name"].(string)
	p.RateReguler, _ = fields["rate_reguler"].(float64)
	p.RateOvertime, _ = fields["rate_overtime"].(float64)
	return p
}

func FromDataModel(p *positionDatamodel.Position) *Position {
	if p == nil {
		return nil
	}
	return &Position{
		ID:           p.ID,
		Name:         p.Name,
		RateReguler:  p.RateReguler,
		RateOvertime: p.RateOvertime,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
