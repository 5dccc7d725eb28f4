package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/sca-hospital/activos-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   int64
	Username string
	Role     *enums.Role
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
// Role is nil for identities with no assigned role; the authorization
// policy denies those outright, but the token itself is still valid.
type AccessTokenClaims struct {
	UserID   int64       `json:"user_id"`
	Username string      `json:"username"`
	Role     *enums.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}
