package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/selfmastery/backend/api/transport"
	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/internal/validator"
	"github.com/selfmastery/backend/pkg/httpcontext"
	tasklistUC "github.com/selfmastery/backend/usecase/tasklist"
)

type TaskListHandler struct {
	baseHandler
	uc *tasklistUC.UseCase
}

func NewTaskListHandler(uc *tasklistUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskListHandler {
	return &TaskListHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List the user's task lists in display order
// @Tags tasklists
// @Router /tasklists [get]
func (h *TaskListHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	lists, err := h.uc.List(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if lists == nil {
		// Serialize as an empty array, not an absent field.
		lists = []domain.TaskList{}
	}
	h.respondSuccess(ctx, http.StatusOK, lists)
}

// @Summary Create a task list
// @Tags tasklists
// @Router /tasklists [post]
func (h *TaskListHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	req, ok := h.parseList(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	list, err := h.uc.Create(stdCtx, userID, req.Name, req.Color)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, list)
}

// @Summary Get one task list
// @Tags tasklists
// @Router /tasklists/{id} [get]
func (h *TaskListHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	listID, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	list, err := h.uc.Get(stdCtx, userID, listID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, list)
}

// @Summary Update a task list's name and color
// @Tags tasklists
// @Router /tasklists/{id} [put]
func (h *TaskListHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	listID, _ := ctx.UserValue("id").(string)

	req, ok := h.parseList(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	list, err := h.uc.Update(stdCtx, userID, listID, req.Name, req.Color)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, list)
}

// @Summary Delete a task list and its tasks
// @Tags tasklists
// @Router /tasklists/{id} [delete]
func (h *TaskListHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	listID, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, userID, listID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.MessagePayload{
		Message: "Task list and associated tasks deleted successfully",
	})
}

func (h *TaskListHandler) parseList(ctx *fasthttp.RequestCtx) (transport.TaskListRequest, bool) {
	var req transport.TaskListRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalidPayload(ctx)
		return req, false
	}
	if err := validator.Apply(req, transport.TaskListRules); err != nil {
		h.respondError(ctx, err)
		return req, false
	}
	return req, true
}
