package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the access-token payload accepted by the API gateway. Tokens
// are issued by the surrounding administrative system; this service only
// validates them.
type JWTClaims struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	DepartmentID string `json:"department_id,omitempty"`
	jwt.RegisteredClaims
}
