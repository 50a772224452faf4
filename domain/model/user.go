package model

import "github.com/golang-jwt/jwt"

// UserClaims is the JWT payload issued by the account service.
type UserClaims struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
	jwt.StandardClaims
}

// AuthUser is what the auth middleware leaves on the request context.
type AuthUser struct {
	ID           string
	Name         string
	ProfileImage string
}
