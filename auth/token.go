package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

// CookieName is the cookie carrying the session token for browser clients.
const CookieName = "session"

var (
	ErrMissingToken = errors.New("missing session token")
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims is what a session token asserts: which session row it refers to and
// which user owns it. The session row is authoritative; the token only names it.
type Claims struct {
	SessionID string
	UserID    uint
	ExpiresAt time.Time
}

func CreateToken(secret, sessionID string, userID uint, expiresAt time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("empty signing secret")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":     sessionID,
		"user_id": userID,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ExtractToken pulls the token from "Authorization: Bearer <token>" or, failing
// that, from the session cookie.
func ExtractToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", ErrInvalidToken
		}
		return parts[1], nil
	}
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", ErrMissingToken
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sid, _ := mapClaims["sid"].(string)
	if sid == "" {
		return nil, fmt.Errorf("%w: missing sid", ErrInvalidToken)
	}
	// JSON numbers decode as float64.
	rawUID, ok := mapClaims["user_id"].(float64)
	if !ok || rawUID <= 0 || rawUID != float64(uint(rawUID)) {
		return nil, fmt.Errorf("%w: bad user_id", ErrInvalidToken)
	}
	claims := &Claims{SessionID: sid, UserID: uint(rawUID)}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return claims, nil
}
