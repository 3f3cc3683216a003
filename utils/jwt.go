package utils

import (
	"errors"
	"time"

	"hotelpms/config"

	"github.com/golang-jwt/jwt"
)

// Token lifetimes. The pending token only correlates an OTP verification call
// back to its login attempt; it grants access to nothing.
const (
	SessionTokenTTL = 24 * time.Hour
	PendingTokenTTL = 10 * time.Minute
)

// PendingTokenType is the type discriminator claim on step-up tokens.
const PendingTokenType = "device_otp"

func secretKey() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

// SessionClaims are the claims extracted from a full session token.
type SessionClaims struct {
	UserID   string
	Username string
	Role     string
	DeviceID string
}

// GenerateSessionToken creates the long-lived token accepted on all
// authenticated requests. Claims carry only non-secret account fields.
func GenerateSessionToken(userID, username, role, deviceID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"role":     role,
		"deviceId": deviceID,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(SessionTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// GeneratePendingToken creates the short-lived token returned with an OTP
// challenge.
func GeneratePendingToken(userID, deviceID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":      userID,
		"deviceId": deviceID,
		"type":     PendingTokenType,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(PendingTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

func parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ParseSessionToken validates a session token and returns its claims.
// Pending-verification tokens are rejected here: they must never pass for a
// full session.
func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	claims, err := parseClaims(tokenString)
	if err != nil {
		return nil, err
	}
	if t, _ := claims["type"].(string); t != "" {
		return nil, errors.New("not a session token")
	}
	sub, _ := claims["sub"].(string)
	deviceID, _ := claims["deviceId"].(string)
	if sub == "" || deviceID == "" {
		return nil, errors.New("token missing required claims")
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	return &SessionClaims{
		UserID:   sub,
		Username: username,
		Role:     role,
		DeviceID: deviceID,
	}, nil
}

// ParsePendingToken validates a step-up token and returns the (userID,
// deviceID) pair it is scoped to.
func ParsePendingToken(tokenString string) (string, string, error) {
	claims, err := parseClaims(tokenString)
	if err != nil {
		return "", "", err
	}
	if t, _ := claims["type"].(string); t != PendingTokenType {
		return "", "", errors.New("not a pending verification token")
	}
	sub, _ := claims["sub"].(string)
	deviceID, _ := claims["deviceId"].(string)
	if sub == "" || deviceID == "" {
		return "", "", errors.New("token missing required claims")
	}
	return sub, deviceID, nil
}
