package auth

import (
	"context"
	"time"

	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are carried by every access token. The registered ID (jti) names the
// server-side session, so revoking the session invalidates the token.
type Claims struct {
	UserID  int64  `json:"uid"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"adm"`
	jwt.RegisteredClaims
}

type TokenGeneratorAPI interface {
	Generate(userID int64, email string, isAdmin bool) (token string, claims *Claims, err error)
	Validate(tokenString string) (*Claims, error)
}

// Session is the server-side half of a login.
type Session struct {
	ID     string
	UserID int64
}

type SessionStore interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

type RepositoryAPI interface {
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
}
