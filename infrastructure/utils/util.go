package utils

import (
	"time"

	"crowdfund-service/infrastructure/logger"

	"github.com/golang-jwt/jwt"
)

// GetCurrentTime is the clock used for record timestamps, truncated to the
// millisecond precision BSON dates keep.
func GetCurrentTime() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// GenerateToken signs payload with HS256. The account service issues the
// same tokens the auth middleware accepts.
func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(payload))
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}
