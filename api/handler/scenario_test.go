package handler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"
)

// TestFullUserJourney walks the primary flow end to end: register, log
// in, create a list, add a task, read it back across both task views,
// then delete the list and observe the cascade.
func TestFullUserJourney(t *testing.T) {
	env := newEnv(t)

	// Register and log in.
	ctx := invoke(env.auth.Register, fasthttp.MethodPost, "/users",
		`{"name":"Ann","email":"ann@example.com","password":"secret1"}`, "", nil)
	if ctx.Response.StatusCode() != fasthttp.StatusCreated {
		t.Fatalf("register: got status %d, want 201", ctx.Response.StatusCode())
	}

	ctx = invoke(env.auth.Login, fasthttp.MethodPost, "/login",
		`{"email":"ann@example.com","password":"secret1"}`, "", nil)
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("login: got status %d, want 200", ctx.Response.StatusCode())
	}
	login := dataMap(t, decode(t, ctx))
	token := login["token"].(string)
	userID, err := env.tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}

	// First list gets display order 1.
	ctx = invoke(env.lists.Create, fasthttp.MethodPost, "/tasklists",
		`{"name":"Work","color":"#ff0000"}`, userID, nil)
	if ctx.Response.StatusCode() != fasthttp.StatusCreated {
		t.Fatalf("create list: got status %d, want 201", ctx.Response.StatusCode())
	}
	list := dataMap(t, decode(t, ctx))
	listID := list["id"].(string)
	if list["order"] != float64(1) {
		t.Fatalf("first list got order %v, want 1", list["order"])
	}

	// Add a task; the completed flag in the payload must be ignored.
	ctx = invoke(env.tasks.Create, fasthttp.MethodPost, "/tasklists/"+listID+"/tasks",
		`{"title":"Write spec","priority":"high","completed":true}`, userID,
		map[string]string{"listId": listID})
	if ctx.Response.StatusCode() != fasthttp.StatusCreated {
		t.Fatalf("create task: got status %d, want 201", ctx.Response.StatusCode())
	}
	task := dataMap(t, decode(t, ctx))
	taskID := task["id"].(string)
	if task["completed"] != false {
		t.Fatal("new task not created uncompleted")
	}

	// The list view has the task.
	ctx = invoke(env.tasks.ListForList, fasthttp.MethodGet, "/tasklists/"+listID+"/tasks",
		"", userID, map[string]string{"listId": listID})
	if got := dataList(t, decode(t, ctx)); len(got) != 1 {
		t.Fatalf("list view has %d tasks, want 1", len(got))
	}

	// The cross-list view annotates the parent list's name.
	ctx = invoke(env.tasks.ListAll, fasthttp.MethodGet, "/tasks", "", userID, nil)
	all := dataList(t, decode(t, ctx))
	if len(all) != 1 {
		t.Fatalf("all-tasks view has %d tasks, want 1", len(all))
	}
	annotated := all[0].(map[string]interface{})
	if annotated["id"] != taskID || annotated["list_name"] != "Work" {
		t.Fatalf("annotated task: %v", annotated)
	}

	// Delete the list; its tasks go with it.
	ctx = invoke(env.lists.Delete, fasthttp.MethodDelete, "/tasklists/"+listID,
		"", userID, map[string]string{"id": listID})
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("delete list: got status %d, want 200", ctx.Response.StatusCode())
	}
	if dataMap(t, decode(t, ctx))["message"] != "Task list and associated tasks deleted successfully" {
		t.Fatal("unexpected delete confirmation")
	}

	ctx = invoke(env.tasks.ListForList, fasthttp.MethodGet, "/tasklists/"+listID+"/tasks",
		"", userID, map[string]string{"listId": listID})
	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("deleted list still serves tasks: status %d", ctx.Response.StatusCode())
	}

	ctx = invoke(env.tasks.ListAll, fasthttp.MethodGet, "/tasks", "", userID, nil)
	if got := dataList(t, decode(t, ctx)); len(got) != 0 {
		t.Fatalf("all-tasks view still has %d tasks after cascade", len(got))
	}
}

func TestHandlersRejectMissingIdentity(t *testing.T) {
	env := newEnv(t)

	protected := []struct {
		name    string
		handler fasthttp.RequestHandler
		method  string
		uri     string
	}{
		{"profile get", env.profile.Get, fasthttp.MethodGet, "/profile"},
		{"list lists", env.lists.List, fasthttp.MethodGet, "/tasklists"},
		{"list tasks", env.tasks.ListAll, fasthttp.MethodGet, "/tasks"},
	}
	for _, tc := range protected {
		ctx := invoke(tc.handler, tc.method, tc.uri, "", "", nil)
		if ctx.Response.StatusCode() != fasthttp.StatusUnauthorized {
			t.Fatalf("%s: got status %d, want 401", tc.name, ctx.Response.StatusCode())
		}
	}
}

// A malformed timestamp is rejected up front, so a full-field update
// with a typo cannot silently clear the stored value.
func TestTaskRejectsMalformedTimestamps(t *testing.T) {
	env := newEnv(t)
	userID := registerAndLogin(t, env)

	created := invoke(env.lists.Create, fasthttp.MethodPost, "/tasklists",
		`{"name":"Work","color":"#ff0000"}`, userID, nil)
	listID := dataMap(t, decode(t, created))["id"].(string)

	ctx := invoke(env.tasks.Create, fasthttp.MethodPost, "/tasklists/"+listID+"/tasks",
		`{"title":"Write spec","priority":"high","due_date":"2026-09-01T09:00:00Z"}`, userID,
		map[string]string{"listId": listID})
	if ctx.Response.StatusCode() != fasthttp.StatusCreated {
		t.Fatalf("create task: got status %d, want 201", ctx.Response.StatusCode())
	}
	task := dataMap(t, decode(t, ctx))
	taskID := task["id"].(string)
	if task["due_date"] != "2026-09-01T09:00:00Z" {
		t.Fatalf("stored due date: %v", task["due_date"])
	}

	ctx = invoke(env.tasks.Update, fasthttp.MethodPut, "/tasks/"+taskID,
		`{"title":"Write spec","priority":"high","due_date":"next tuesday"}`, userID,
		map[string]string{"id": taskID})
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Fatalf("malformed due date accepted: status %d", ctx.Response.StatusCode())
	}
	envelope := decode(t, ctx)
	if envelope.Code != "VALIDATION_FAILED" {
		t.Fatalf("got code %q, want VALIDATION_FAILED", envelope.Code)
	}
	fields := envelope.Error.([]interface{})
	if len(fields) != 1 {
		t.Fatalf("got %d field errors, want 1", len(fields))
	}
	violated := fields[0].(map[string]interface{})
	if violated["field"] != "due_date" || violated["message"] != "Invalid due_date value (must be an RFC 3339 timestamp)" {
		t.Fatalf("unexpected violation: %v", violated)
	}

	// The stored task is untouched.
	ctx = invoke(env.tasks.Get, fasthttp.MethodGet, "/tasks/"+taskID,
		"", userID, map[string]string{"id": taskID})
	if dataMap(t, decode(t, ctx))["due_date"] != "2026-09-01T09:00:00Z" {
		t.Fatal("rejected update still mutated the task")
	}
}

// Collection endpoints answer an empty array, never an absent data key.
func TestEmptyCollectionsSerializeAsArrays(t *testing.T) {
	env := newEnv(t)
	userID := registerAndLogin(t, env)

	for _, tc := range []struct {
		name    string
		handler fasthttp.RequestHandler
		uri     string
		params  map[string]string
	}{
		{"lists", env.lists.List, "/tasklists", nil},
		{"all tasks", env.tasks.ListAll, "/tasks", nil},
	} {
		ctx := invoke(tc.handler, fasthttp.MethodGet, tc.uri, "", userID, tc.params)
		if ctx.Response.StatusCode() != fasthttp.StatusOK {
			t.Fatalf("%s: got status %d, want 200", tc.name, ctx.Response.StatusCode())
		}
		if !strings.Contains(string(ctx.Response.Body()), `"data":[]`) {
			t.Fatalf("%s: body %s lacks an empty data array", tc.name, ctx.Response.Body())
		}
	}

	// Same for the per-list view of a freshly created list.
	created := invoke(env.lists.Create, fasthttp.MethodPost, "/tasklists",
		`{"name":"Work","color":"#ff0000"}`, userID, nil)
	listID := dataMap(t, decode(t, created))["id"].(string)

	ctx := invoke(env.tasks.ListForList, fasthttp.MethodGet, "/tasklists/"+listID+"/tasks",
		"", userID, map[string]string{"listId": listID})
	if !strings.Contains(string(ctx.Response.Body()), `"data":[]`) {
		t.Fatalf("list view body %s lacks an empty data array", ctx.Response.Body())
	}
}

func TestListsKeepDisplayOrder(t *testing.T) {
	env := newEnv(t)
	userID := registerAndLogin(t, env)

	for _, name := range []string{"Work", "Home", "Errands"} {
		body := fmt.Sprintf(`{"name":%q,"color":"#00ff00"}`, name)
		ctx := invoke(env.lists.Create, fasthttp.MethodPost, "/tasklists", body, userID, nil)
		if ctx.Response.StatusCode() != fasthttp.StatusCreated {
			t.Fatalf("create %q: status %d", name, ctx.Response.StatusCode())
		}
	}

	ctx := invoke(env.lists.List, fasthttp.MethodGet, "/tasklists", "", userID, nil)
	lists := dataList(t, decode(t, ctx))
	if len(lists) != 3 {
		t.Fatalf("got %d lists, want 3", len(lists))
	}
	for i, want := range []string{"Work", "Home", "Errands"} {
		got := lists[i].(map[string]interface{})
		if got["name"] != want || got["order"] != float64(i+1) {
			t.Fatalf("position %d: %v, want %s with order %d", i, got, want, i+1)
		}
	}
}

func registerAndLogin(t *testing.T, env *testEnv) string {
	t.Helper()
	invoke(env.auth.Register, fasthttp.MethodPost, "/users",
		`{"name":"Ann","email":"ann@example.com","password":"secret1"}`, "", nil)
	ctx := invoke(env.auth.Login, fasthttp.MethodPost, "/login",
		`{"email":"ann@example.com","password":"secret1"}`, "", nil)
	login := dataMap(t, decode(t, ctx))
	userID, err := env.tokens.Verify(login["token"].(string))
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	return userID
}
