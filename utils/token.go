package authUtils

import (
	"fmt"
	"os"
	"time"

	"civicconnect-be/models"

	"github.com/dgrijalva/jwt-go"
)

// GenerateToken signs a JWT for a principal id and role
func GenerateToken(userID string, role models.Role) (string, error) {
	secretStr := os.Getenv("JWT_SECRET")
	if secretStr == "" {
		return "", fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	jwtSecret := []byte(secretStr)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour * 72).Unix(), // Token expires in 72 hours
	})

	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies a bearer token and returns the principal id and role
func ParseToken(tokenString string) (string, models.Role, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return "", "", fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}
	userID, _ := claims["user_id"].(string)
	roleStr, _ := claims["role"].(string)
	role := models.Role(roleStr)
	if userID == "" || !models.ValidRole(role) {
		return "", "", fmt.Errorf("invalid token claims")
	}
	return userID, role, nil
}
