package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/colonia-io/colonia/config"

	"strings"
)

func ExtractToken(c *gin.Context) string {
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Fields(authHeader)
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}

func GenerateToken(userID uint, username string, isAdmin bool, config *config.EnvConfig) (string, error) {
	if config.JWT.SecretKey == "" {
		return "", errors.New("jwt secret is not configured")
	}
	claims := jwt.MapClaims{
		"user_id":  strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"is_admin": isAdmin,
		"exp":      time.Now().Add(time.Duration(config.JWT.Expire) * time.Second).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWT.SecretKey))
}

func ParseToken(tokenString string, config *config.EnvConfig) (*jwt.Token, error) {
	secret := []byte(config.JWT.SecretKey)
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
}

func InjectClaimsToContext(c *gin.Context, claims jwt.MapClaims) error {
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return errors.New("invalid user_id format")
	}
	if _, err := strconv.ParseUint(userIDStr, 10, 64); err != nil {
		return errors.New("invalid user_id format")
	}
	c.Set("user_id", userIDStr)

	if username, ok := claims["username"].(string); ok {
		c.Set("username", username)
	} else {
		c.Set("username", "")
	}
	if isAdmin, ok := claims["is_admin"].(bool); ok {
		c.Set("is_admin", isAdmin)
	} else {
		c.Set("is_admin", false)
	}
	return nil
}

// GetUserIDFromContext returns the authenticated user id set by the auth
// middleware. It supports both string and uint storage.
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, errors.New("user_id is missing from context")
	}

	switch v := userID.(type) {
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, errors.New("invalid user_id format: " + err.Error())
		}
		return uint(parsed), nil
	case uint:
		return v, nil
	default:
		return 0, errors.New("invalid user_id type in context")
	}
}
