package http

import (
	"errors"
	"net/http"
	"strings"

	"marketplace/internal/core/application/envelope"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	userIDKey        = "user_id"
	anonymousUser    = "system"
	codeUnauthorized = "UNAUTHORIZED"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by the bearer token. Subject is the acting user.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity resolves the acting user from an optional HS256 bearer token.
// Requests without a token act as "system"; a token that does not verify is
// rejected with 401.
func Identity(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request())
			if token == "" {
				c.Set(userIDKey, anonymousUser)
				return next(c)
			}

			claims, err := parseToken(token, key)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, envelope.Envelope[any]{
					StatusCode: http.StatusUnauthorized,
					Error:      &envelope.Error{Code: codeUnauthorized, Message: err.Error()},
				})
			}

			c.Set(userIDKey, claims.Subject)
			return next(c)
		}
	}
}

// UserID returns the acting user of the request.
func UserID(c echo.Context) string {
	if id, ok := c.Get(userIDKey).(string); ok && id != "" {
		return id
	}
	return anonymousUser
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func parseToken(raw string, key []byte) (*Claims, error) {
	if len(key) == 0 {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, jwt.ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
