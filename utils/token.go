package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

// GenerateAccessToken creates a new JWT access token for a portal user.
func GenerateAccessToken(secret []byte, userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	})

	return token.SignedString(secret)
}

// ExtractUserIDFromToken pulls the user id out of a Bearer token. Used
// by the payment initiator to attribute an attempt to a signed-in user
// when the client sends one; an empty or invalid header is not an error
// condition for the caller.
func ExtractUserIDFromToken(secret []byte, authHeader string) (string, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid authorization header format")
	}

	tokenString := parts[1]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("invalid user ID in token")
	}

	return userID, nil
}
