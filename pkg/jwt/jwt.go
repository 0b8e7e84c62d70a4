package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// HolderID y Role permiten que el middleware autorice sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	HolderID  string `json:"holder_id"`
	Role      string `json:"role"` // "admin" | "csc" | "engineer"
	TokenType string `json:"typ"`
}

// Generate genera un access token firmado que incluye userID, holderID y role.
func Generate(secret, userID, holderID, role, issuer string, expMinutes int) (string, error) {
	return sign(secret, userID, holderID, role, issuer, typeAccess, expMinutes)
}

// GenerateRefresh genera un refresh token; solo sirve para /auth/refresh.
func GenerateRefresh(secret, userID, holderID, role, issuer string, expMinutes int) (string, error) {
	return sign(secret, userID, holderID, role, issuer, typeRefresh, expMinutes)
}

func sign(secret, userID, holderID, role, issuer, tokenType string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		HolderID:  holderID,
		Role:      role,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida un access token y devuelve userID, holderID y role.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o es un refresh token.
func Parse(secret, tokenString string) (userID, holderID, role string, err error) {
	claims, err := parse(secret, tokenString)
	if err != nil {
		return "", "", "", err
	}
	if claims.TokenType != typeAccess {
		return "", "", "", fmt.Errorf("jwt: se esperaba access token")
	}
	return claims.UserID, claims.HolderID, claims.Role, nil
}

// ParseRefresh valida un refresh token y devuelve sus claims.
func ParseRefresh(secret, tokenString string) (*Claims, error) {
	claims, err := parse(secret, tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != typeRefresh {
		return nil, fmt.Errorf("jwt: se esperaba refresh token")
	}
	return claims, nil
}

func parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
