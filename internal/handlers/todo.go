package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Okano804/ChatTODO/internal/clock"
	dom "github.com/Okano804/ChatTODO/internal/domain"
	"github.com/Okano804/ChatTODO/internal/dto"
	"github.com/Okano804/ChatTODO/internal/service"
)

type TodoHandler struct {
	svc  *service.TodoService
	zone clock.Zone
}

func NewTodoHandler(svc *service.TodoService, zone clock.Zone) *TodoHandler {
	return &TodoHandler{svc: svc, zone: zone}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deadline, err := h.zone.ParseDeadline(req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), req.CreatorName, req.CreatorEmail, req.TaskContent, deadline)
	if err != nil {
		if err == service.ErrMissingField {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, h.todoToResponse(t))
}

// List godoc
// @Summary      List all todos, incomplete first, soonest deadline first
// @Tags         todos
// @Produce      json
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      500  {object}  map[string]string
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: h.todosToResponses(list)})
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == service.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.todoToResponse(t))
}

// Update godoc
// @Summary      Edit task content and/or deadline
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Partial update"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var deadline *time.Time
	if req.Deadline != nil {
		d, err := h.zone.ParseDeadline(*req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		deadline = &d
	}

	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.TaskContent, deadline)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case service.ErrMissingField:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, h.todoToResponse(t))
}

// Toggle godoc
// @Summary      Toggle completion
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Todo ID"
// @Param        body  body      dto.ToggleTodoRequest  true  "Completion state"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /todos/{id} [patch]
func (h *TodoHandler) Toggle(c *gin.Context) {
	var req dto.ToggleTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.SetCompleted(c.Request.Context(), c.Param("id"), *req.IsCompleted)
	if err != nil {
		if err == service.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.todoToResponse(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Param        id   path  string  true  "Todo ID"
// @Success      204
// @Failure      500  {object}  map[string]string
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Overdue godoc
// @Summary      List overdue incomplete todos
// @Tags         todos
// @Produce      json
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      500  {object}  map[string]string
// @Router       /todos/overdue [get]
func (h *TodoHandler) Overdue(c *gin.Context) {
	list, err := h.svc.Overdue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: h.todosToResponses(list)})
}

func (h *TodoHandler) todoToResponse(t dom.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:              t.ID,
		CreatorName:     t.CreatorName,
		CreatorEmail:    t.CreatorEmail,
		TaskContent:     t.TaskContent,
		Deadline:        t.Deadline,
		DeadlineLocal:   h.zone.Format(t.Deadline),
		IsCompleted:     t.IsCompleted,
		NotifiedOverdue: t.NotifiedOverdue,
		Notified1Day:    t.Notified1Day,
		Notified6Hour:   t.Notified6Hour,
		Notified2Hour:   t.Notified2Hour,
		Notified1Hour:   t.Notified1Hour,
		Notified30Min:   t.Notified30Min,
		CreatedAt:       t.CreatedAt,
	}
}

func (h *TodoHandler) todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = h.todoToResponse(list[i])
	}
	return out
}
