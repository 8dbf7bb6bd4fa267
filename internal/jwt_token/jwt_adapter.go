package jwttoken

import (
	authmw "github.com/ZafarDakhnairi/iGameDB/internal/platform/middleware"
)

func ToMiddlewareClaims(claims *Claims) *authmw.TokenClaims {
	return &authmw.TokenClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		JTI:       claims.ID, // JWT ID for revocation tracking
		ExpiresAt: claims.ExpiresAt.Time,
	}
}

type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.TokenClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
