package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// AuthCookieName is the session cookie. HttpOnly always, Secure in production.
const AuthCookieName = "auth_token"

const sessionTTL = 24 * time.Hour

// GenerateJWT mints a signed session token for the user. Only the identity is
// embedded; the role is re-read from the store on every role-gated operation,
// so a revoked role takes effect on the next request.
func GenerateJWT(userID uint, jwtKey string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtKey))
}

// AuthMiddleware checks for a valid session cookie and attaches the resolved
// user id to the request context. Downstream handlers never run on failure.
func AuthMiddleware(jwtKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(AuthCookieName)
		if tokenString == "" {
			return Unauthorized("Unauthorized Access")
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtKey), nil
		})
		if err != nil || !token.Valid {
			return Unauthorized("Invalid or expired token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["userId"] == nil {
			return Unauthorized("Invalid token payload")
		}

		// JWT numeric claims decode as float64
		userID := claims["userId"].(float64)
		c.Locals("userId", uint(userID))

		return c.Next()
	}
}

// SetAuthCookie delivers the session token, max-age 24 hours.
func SetAuthCookie(c *fiber.Ctx, token string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   secure,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

// ClearAuthCookie logs the session out by setting an already-expired cookie.
func ClearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		HTTPOnly: true,
		Expires:  time.Unix(0, 0),
	})
}
