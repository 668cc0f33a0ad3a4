package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"notify-srv/pkg/response"
	"notify-srv/pkg/scope"
)

const (
	bearerPrefix     = "Bearer "
	accessTokenQuery = "access_token"
)

// Auth verifies the request's bearer credential and stores the Principal
// in the request context. The Authorization header is preferred; the
// access_token query parameter serves clients that cannot set headers.
func (m Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, err := bearerToken(c)
		if err != nil {
			m.l.Warnf(ctx, "middleware.Auth: %v | Path: %s", err, c.Request.URL.Path)
			if errors.Is(err, scope.ErrMalformedHeader) {
				response.BadRequest(c)
			} else {
				response.Unauthorized(c)
			}
			c.Abort()
			return
		}

		principal, err := m.verifier.Verify(token)
		if err != nil {
			m.l.Warnf(ctx, "middleware.Auth.Verify: %v | Path: %s", err, c.Request.URL.Path)
			response.Unauthorized(c)
			c.Abort()
			return
		}

		ctx = scope.SetPrincipalToContext(ctx, principal)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		if !strings.HasPrefix(header, bearerPrefix) {
			return "", scope.ErrMalformedHeader
		}
		token := strings.TrimSpace(header[len(bearerPrefix):])
		if token == "" {
			return "", scope.ErrMissingToken
		}
		return token, nil
	}

	if token := c.Query(accessTokenQuery); token != "" {
		return token, nil
	}
	return "", scope.ErrMissingToken
}
