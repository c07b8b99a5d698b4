package auth

import (
	"time"

	"github.com/frahmantamala/hr-management/internal/core/common/validation"
)

// LoginDTO is the validated shape of a login request.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var loginRules = validation.RuleSet{
	{Field: "email", Presence: validation.Required, Kind: validation.KindEmail},
	{Field: "password", Presence: validation.Required, Kind: validation.KindString},
}

type AccountInfo struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        AccountInfo `json:"user"`
}
