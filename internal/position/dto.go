package position

// PayrollRates is the position summary payroll reads for one user.
type PayrollRates struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	RateReguler  float64 `json:"rate_reguler"`
	RateOvertime float64 `json:"rate_overtime"`
}

type UserPositionResponse struct {
	UserID   int64         `json:"user_id"`
	Position *PayrollRates `json:"position"`
}
