package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/selfmastery/backend/api/transport"
	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/internal/validator"
	"github.com/selfmastery/backend/pkg/httpcontext"
	taskUC "github.com/selfmastery/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List the tasks of one list, sorted by due date then priority
// @Tags tasks
// @Router /tasklists/{listId}/tasks [get]
func (h *TaskHandler) ListForList(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	listID, _ := ctx.UserValue("listId").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListForList(stdCtx, userID, listID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if tasks == nil {
		// Serialize as an empty array, not an absent field.
		tasks = []domain.Task{}
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Create a task in a list
// @Tags tasks
// @Router /tasklists/{listId}/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	listID, _ := ctx.UserValue("listId").(string)

	fields, ok := h.parseTask(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, userID, listID, fields)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary List every task of the user with its list name
// @Tags tasks
// @Router /tasks [get]
func (h *TaskHandler) ListAll(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListAll(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Get one task
// @Tags tasks
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	taskID, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, userID, taskID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Update every caller-settable field of a task
// @Tags tasks
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	taskID, _ := ctx.UserValue("id").(string)

	fields, ok := h.parseTask(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, userID, taskID, fields)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete a task
// @Tags tasks
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	taskID, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, userID, taskID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.MessagePayload{Message: "Task deleted successfully"})
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx) (taskUC.Fields, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalidPayload(ctx)
		return taskUC.Fields{}, false
	}
	if err := validator.Apply(req, transport.TaskRules); err != nil {
		h.respondError(ctx, err)
		return taskUC.Fields{}, false
	}

	return taskUC.Fields{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     parseTime(req.DueDate),
		Priority:    req.Priority,
		Completed:   req.Completed,
		Reminder:    parseTime(req.Reminder),
		Recurring:   req.Recurring,
	}, true
}

// parseTime converts an optional timestamp string. Validation has
// already rejected anything non-empty that is not RFC 3339.
func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &parsed
}
