package handler

import (
	"github.com/gin-gonic/gin"

	taskapp "github.com/friendserp/custom-clearance/internal/application/task"
	"github.com/friendserp/custom-clearance/internal/domain/task"
)

// InboxHandler handles the per-user notification and todo endpoints.
type InboxHandler struct {
	BaseHandler
	service *taskapp.InboxService
}

// NewInboxHandler creates a new inbox handler
func NewInboxHandler(service *taskapp.InboxService) *InboxHandler {
	return &InboxHandler{service: service}
}

// RegisterRoutes registers notification and todo routes
func (h *InboxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.POST("/:id/read", h.MarkNotificationRead)
	}
	todos := rg.Group("/todos")
	{
		todos.GET("", h.ListTodos)
		todos.POST("/:id/close", h.CloseTodo)
	}
}

// ListNotifications godoc
// @Summary      List the caller's notifications
// @Tags         inbox
// @Produce      json
// @Param        unread_only query bool false "Only unread notifications"
// @Success      200 {object} dto.Response{data=[]task.NotificationLog}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *InboxHandler) ListNotifications(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	unreadOnly := c.Query("unread_only") == "true"
	logs, err := h.service.ListNotifications(c.Request.Context(), p.UserID, unreadOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}

// MarkNotificationRead godoc
// @Summary      Mark a notification as read
// @Tags         inbox
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200 {object} dto.Response{data=task.NotificationLog}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *InboxHandler) MarkNotificationRead(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid notification ID")
		return
	}
	n, err := h.service.MarkNotificationRead(c.Request.Context(), p.UserID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// ListTodos godoc
// @Summary      List the caller's todos
// @Tags         inbox
// @Produce      json
// @Param        status query string false "Filter by status" Enums(Open, Closed, Cancelled)
// @Success      200 {object} dto.Response{data=[]task.Todo}
// @Security     BearerAuth
// @Router       /todos [get]
func (h *InboxHandler) ListTodos(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	status := task.TodoStatus(c.Query("status"))
	todos, err := h.service.ListTodos(c.Request.Context(), p.UserID, status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, todos)
}

// CloseTodo godoc
// @Summary      Close a todo
// @Tags         inbox
// @Produce      json
// @Param        id path string true "Todo ID"
// @Success      200 {object} dto.Response{data=task.Todo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /todos/{id}/close [post]
func (h *InboxHandler) CloseTodo(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid todo ID")
		return
	}
	todo, err := h.service.CloseTodo(c.Request.Context(), p.UserID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, todo)
}
