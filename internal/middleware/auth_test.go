package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/selfmastery/backend/api/transport"
	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/internal/testutil"
	"github.com/selfmastery/backend/usecase/auth"
)

func setup(t *testing.T) (*testutil.Store, *auth.TokenIssuer, func(fasthttp.RequestHandler) fasthttp.RequestHandler) {
	t.Helper()
	store := testutil.NewStore()
	tokens := auth.NewTokenIssuer("test-secret", "selfmastery", time.Hour)
	mw := BearerAuth(tokens, store.Users(), time.Second, nil)
	return store, tokens, mw
}

func seedUser(t *testing.T, store *testutil.Store) *domain.User {
	t.Helper()
	user := &domain.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "x"}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func request(authorization string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/profile")
	if authorization != "" {
		ctx.Request.Header.Set("Authorization", authorization)
	}
	return &ctx
}

func assertUnauthorized(t *testing.T, ctx *fasthttp.RequestCtx) {
	t.Helper()
	if ctx.Response.StatusCode() != fasthttp.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", ctx.Response.StatusCode())
	}
	var envelope transport.Envelope
	if err := json.Unmarshal(ctx.Response.Body(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Status != "error" {
		t.Fatalf("got envelope status %q, want error", envelope.Status)
	}
}

func TestBearerAuthPassesUserID(t *testing.T) {
	store, tokens, mw := setup(t)
	user := seedUser(t, store)

	token, err := tokens.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var gotUserID string
	handler := mw(func(ctx *fasthttp.RequestCtx) {
		gotUserID = string(ctx.Request.Header.Peek("X-User-ID"))
		ctx.SetStatusCode(fasthttp.StatusOK)
	})

	ctx := request("Bearer " + token)
	handler(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("got status %d, want 200", ctx.Response.StatusCode())
	}
	if gotUserID != user.ID {
		t.Fatalf("handler saw user %q, want %q", gotUserID, user.ID)
	}
}

func TestBearerAuthMissingHeader(t *testing.T) {
	_, _, mw := setup(t)

	called := false
	handler := mw(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := request("")
	handler(ctx)

	assertUnauthorized(t, ctx)
	if called {
		t.Fatal("next handler ran without credentials")
	}
}

func TestBearerAuthBadScheme(t *testing.T) {
	store, tokens, mw := setup(t)
	user := seedUser(t, store)
	token, err := tokens.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	handler := mw(func(ctx *fasthttp.RequestCtx) { t.Fatal("next handler ran") })

	// Token without the Bearer prefix is rejected outright.
	ctx := request(token)
	handler(ctx)
	assertUnauthorized(t, ctx)
}

func TestBearerAuthInvalidToken(t *testing.T) {
	_, _, mw := setup(t)

	handler := mw(func(ctx *fasthttp.RequestCtx) { t.Fatal("next handler ran") })

	ctx := request("Bearer not-a-real-token")
	handler(ctx)
	assertUnauthorized(t, ctx)
}

// downUserRepo simulates a store outage on every call.
type downUserRepo struct{}

func (downUserRepo) GetByID(context.Context, string) (*domain.User, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func (downUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func (downUserRepo) Create(context.Context, *domain.User) error {
	return errors.New("dial tcp: connection refused")
}

func (downUserRepo) Update(context.Context, *domain.User) error {
	return errors.New("dial tcp: connection refused")
}

func (downUserRepo) UpdatePassword(context.Context, string, string) error {
	return errors.New("dial tcp: connection refused")
}

// A store outage during the existence check is an infrastructure
// failure, not a credential problem: 500, not 401.
func TestBearerAuthStoreFailure(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", "selfmastery", time.Hour)
	mw := BearerAuth(tokens, downUserRepo{}, time.Second, zap.NewNop())

	token, err := tokens.Issue("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	handler := mw(func(ctx *fasthttp.RequestCtx) { t.Fatal("next handler ran") })

	ctx := request("Bearer " + token)
	handler(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", ctx.Response.StatusCode())
	}
	var envelope transport.Envelope
	if err := json.Unmarshal(ctx.Response.Body(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Code != "INTERNAL" || envelope.Error != "internal server error" {
		t.Fatalf("got %q/%v, want an opaque INTERNAL error", envelope.Code, envelope.Error)
	}
}

// A syntactically valid token whose account no longer exists is rejected.
func TestBearerAuthDeletedUser(t *testing.T) {
	_, tokens, mw := setup(t)

	token, err := tokens.Issue("ghost-user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	handler := mw(func(ctx *fasthttp.RequestCtx) { t.Fatal("next handler ran") })

	ctx := request("Bearer " + token)
	handler(ctx)
	assertUnauthorized(t, ctx)
}
