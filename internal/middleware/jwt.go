package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AccessTokenCookie is the cookie the login pages store the access token in.
// Browser navigations (checkout form posts, the gateway callback) cannot set
// an Authorization header, so the cookie is accepted as a fallback.
const AccessTokenCookie = "access_token"

// JWTAuth validates an HS256 access token and stores the subject under
// "user_id" as a string.  Requests without a valid token are rejected with
// 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return authenticate(secret, true)
}

// OptionalAuth is JWTAuth without the rejection: the subject is stored when
// a valid token is present and the request proceeds either way.
func OptionalAuth(secret string) echo.MiddlewareFunc {
	return authenticate(secret, false)
}

func authenticate(secret string, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				if required {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
				}
				return next(c)
			}

			sub, ok := parseSubject(raw, secret)
			if !ok {
				if required {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
				}
				return next(c)
			}
			c.Set(userIDKey, sub)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if ck, err := c.Cookie(AccessTokenCookie); err == nil {
		return ck.Value
	}
	return ""
}

// parseSubject returns the token subject.  The auth service issues numeric
// subjects; string subjects are accepted too.
func parseSubject(raw, secret string) (string, bool) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	v, ok := claims["sub"]
	if !ok {
		v = claims["user_id"]
	}
	switch s := v.(type) {
	case string:
		return s, s != ""
	case float64:
		if s <= 0 || s != float64(int64(s)) {
			return "", false
		}
		return strconv.FormatInt(int64(s), 10), true
	}
	return "", false
}
