package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/selfmastery/backend/api/transport"
	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data))
}

func (h baseHandler) respondInvalidPayload(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusBadRequest,
		transport.NewError(string(domain.ErrCodeValidation), domain.ErrInvalidPayload.Message))
}

// respondError maps the closed error taxonomy onto HTTP responses.
// Anything outside the taxonomy is an infrastructure failure: it is logged
// with full detail and returned as an opaque generic message.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeValidation), vErr.Fields))
		return
	}

	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), err.Error()))
	case domain.IsDomainError(err, domain.ErrCodeValidation):
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), err.Error()))
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeConflict), err.Error()))
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		h.respondJSON(ctx, http.StatusNotFound, transport.NewError(string(domain.ErrCodeNotFound), err.Error()))
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.respondJSON(ctx, http.StatusInternalServerError,
			transport.NewError(string(domain.ErrCodeInternal), "internal server error"))
	}
}

// userID returns the identity resolved by the auth middleware, answering
// 401 itself when it is missing.
func (h baseHandler) userID(ctx *fasthttp.RequestCtx) string {
	userID := string(ctx.Request.Header.Peek("X-User-ID"))
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized,
			transport.NewError(string(domain.ErrCodeUnauthorized), domain.ErrUnauthorized.Message))
	}
	return userID
}

func userPayload(user *domain.User) transport.UserPayload {
	return transport.UserPayload{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}
