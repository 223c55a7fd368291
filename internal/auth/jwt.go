package auth

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultExpiryMinutes = 30

func secret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func expiry() time.Duration {
	minutes, err := strconv.Atoi(os.Getenv("JWT_EXPIRY_MINUTES"))
	if err != nil || minutes <= 0 {
		minutes = defaultExpiryMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// GenerateToken signs an access token whose subject is the user ID.
func GenerateToken(userID string) (string, error) {
	return GenerateTokenWithEmail(userID, "")
}

// GenerateTokenWithEmail additionally embeds the user's email claim,
// matching the payload returned by the auth endpoints.
func GenerateTokenWithEmail(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(expiry()).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// ParseToken validates a token and returns its subject (the user ID).
func ParseToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["sub"] == nil {
		return "", errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("invalid claims")
	}
	return sub, nil
}
