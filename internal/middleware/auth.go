package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/selfmastery/backend/api/transport"
	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/repository"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// BearerAuth gates protected routes: it extracts the Authorization bearer
// token, verifies it, confirms the user still exists, and exposes the
// resolved identity to handlers through the X-User-ID header.
func BearerAuth(tokens TokenVerifier, users repository.UserRepository, timeout time.Duration, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx, domain.ErrUnauthorized.Message)
				return
			}

			userID, err := tokens.Verify(tokenString)
			if err != nil {
				logger.Warn("token verification failed", zap.Error(err))
				unauthorized(ctx, domain.ErrInvalidToken.Message)
				return
			}

			// The token may outlive its account; re-check the store.
			stdCtx, cancel := context.WithTimeout(context.Background(), timeout)
			_, err = users.GetByID(stdCtx, userID)
			cancel()
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					unauthorized(ctx, domain.ErrInvalidToken.Message)
					return
				}
				// A store outage is not a credential problem.
				logger.Error("user lookup failed", zap.Error(err))
				internalError(ctx)
				return
			}

			ctx.Request.Header.Set("X-User-ID", userID)
			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), message))
	ctx.SetBody(body)
}

func internalError(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeInternal), "internal server error"))
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
