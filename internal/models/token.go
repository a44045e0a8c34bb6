package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims are the claims carried by tokens issued by the external
// identity provider. The core never mints these; it only validates them.
type AccessClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
