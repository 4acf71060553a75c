package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type JWTClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func jwtKey() ([]byte, error) {
	key := []byte(os.Getenv("JWT_SECRET")) // read at call time
	if len(key) == 0 {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return key, nil
}

func generateToken(userID, tokenType string, ttl time.Duration) (string, time.Time, error) {
	key, err := jwtKey()
	if err != nil {
		return "", time.Time{}, err
	}

	expires := time.Now().Add(ttl)
	claims := JWTClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	return signed, expires, err
}

// GenerateAccessToken issues the short-lived bearer credential returned
// in the login response body.
func GenerateAccessToken(userID string) (string, time.Time, error) {
	return generateToken(userID, tokenTypeAccess, AccessTokenTTL)
}

// GenerateRefreshToken issues the longer-lived token delivered only via
// the http-only cookie side channel.
func GenerateRefreshToken(userID string) (string, time.Time, error) {
	return generateToken(userID, tokenTypeRefresh, RefreshTokenTTL)
}

func verifyToken(tokenStr, tokenType string) (*JWTClaims, error) {
	key, err := jwtKey()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != tokenType {
		return nil, errors.New("unexpected token type")
	}
	return claims, nil
}

// VerifyAccessToken validates a bearer token from the Authorization header.
func VerifyAccessToken(tokenStr string) (*JWTClaims, error) {
	return verifyToken(tokenStr, tokenTypeAccess)
}

// VerifyRefreshToken validates a token read from the refresh cookie.
func VerifyRefreshToken(tokenStr string) (*JWTClaims, error) {
	return verifyToken(tokenStr, tokenTypeRefresh)
}
