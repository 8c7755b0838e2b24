package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/selfmastery/backend/api/transport"
	"github.com/selfmastery/backend/internal/testutil"
	authUC "github.com/selfmastery/backend/usecase/auth"
	profileUC "github.com/selfmastery/backend/usecase/profile"
	taskUC "github.com/selfmastery/backend/usecase/task"
	tasklistUC "github.com/selfmastery/backend/usecase/tasklist"
)

// testEnv wires every handler over the in-memory repositories, the same
// shape main assembles against Postgres.
type testEnv struct {
	store   *testutil.Store
	tokens  *authUC.TokenIssuer
	auth    *AuthHandler
	profile *ProfileHandler
	lists   *TaskListHandler
	tasks   *TaskHandler
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	store := testutil.NewStore()
	tokens := authUC.NewTokenIssuer("test-secret", "selfmastery", time.Hour)

	return &testEnv{
		store:   store,
		tokens:  tokens,
		auth:    NewAuthHandler(authUC.New(store.Users(), tokens, nil), nil, nil),
		profile: NewProfileHandler(profileUC.New(store.Users(), nil), nil, nil),
		lists:   NewTaskListHandler(tasklistUC.New(store.TaskLists(), store.Tasks(), nil), nil, nil),
		tasks:   NewTaskHandler(taskUC.New(store.Tasks(), store.TaskLists(), nil), nil, nil),
	}
}

// invoke calls a handler directly with an assembled request context. Path
// parameters are injected the way the router would set them; userID mimics
// the identity header the auth middleware forwards.
func invoke(h fasthttp.RequestHandler, method, uri, body, userID string, params map[string]string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBodyString(body)
	}
	if userID != "" {
		ctx.Request.Header.Set("X-User-ID", userID)
	}
	for key, value := range params {
		ctx.SetUserValue(key, value)
	}
	h(&ctx)
	return &ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx) transport.Envelope {
	t.Helper()
	var envelope transport.Envelope
	if err := json.Unmarshal(ctx.Response.Body(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, ctx.Response.Body())
	}
	return envelope
}

// dataMap re-marshals envelope data into a generic map for field checks.
func dataMap(t *testing.T, envelope transport.Envelope) map[string]interface{} {
	t.Helper()
	m, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("envelope data is %T, want object", envelope.Data)
	}
	return m
}

func dataList(t *testing.T, envelope transport.Envelope) []interface{} {
	t.Helper()
	if envelope.Data == nil {
		return nil
	}
	l, ok := envelope.Data.([]interface{})
	if !ok {
		t.Fatalf("envelope data is %T, want array", envelope.Data)
	}
	return l
}
