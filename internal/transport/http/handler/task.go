package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"personal-apis/internal/core/cache"
	"personal-apis/internal/domain"
	"personal-apis/internal/serializer"
	mdw "personal-apis/internal/transport/http/middleware"
	resp "personal-apis/internal/transport/http/response"
)

// TaskHandler is the task resource: five owner-scoped CRUD operations.
// cache 可为 nil（直读仓库）
type TaskHandler struct {
	tasks domain.TaskRepository
	cache *cache.TaskCache
	log   *zap.Logger
}

func NewTaskHandler(tasks domain.TaskRepository, c *cache.TaskCache, log *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, cache: c, log: log}
}

// taskID parses the :id segment. 解析失败按 not found 处理，
// 与越权 id 的表现保持一致
func taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		resp.Error(c, http.StatusNotFound, "not found")
		return 0, false
	}
	return uint(id), true
}

func (h *TaskHandler) List(c *gin.Context) {
	p := mdw.PrincipalFrom(c)
	list, err := h.cache.List(c.Request.Context(), p.UserID, func(ctx context.Context) ([]domain.Task, error) {
		return h.tasks.ListByOwner(ctx, p.UserID)
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Tasks(list))
}

func (h *TaskHandler) Create(c *gin.Context) {
	p := mdw.PrincipalFrom(c)
	var in serializer.TaskInput
	if !bindJSON(c, &in) {
		return
	}
	t, err := in.NewTask()
	if err != nil {
		fail(c, h.log, err)
		return
	}
	t.OwnerID = p.UserID // payload 里的 owner 一律忽略
	if err := h.tasks.Create(c.Request.Context(), &t); err != nil {
		fail(c, h.log, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), p.UserID)
	c.JSON(http.StatusCreated, serializer.Task(t))
}

func (h *TaskHandler) Retrieve(c *gin.Context) {
	p := mdw.PrincipalFrom(c)
	id, ok := taskID(c)
	if !ok {
		return
	}
	t, err := h.tasks.GetByID(c.Request.Context(), p.UserID, id)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Task(t))
}

// Update 全量替换（PUT）
func (h *TaskHandler) Update(c *gin.Context) {
	h.update(c, serializer.TaskInput.Replace)
}

// PartialUpdate 部分更新（PATCH）
func (h *TaskHandler) PartialUpdate(c *gin.Context) {
	h.update(c, serializer.TaskInput.Apply)
}

func (h *TaskHandler) update(c *gin.Context, apply func(serializer.TaskInput, *domain.Task) error) {
	p := mdw.PrincipalFrom(c)
	id, ok := taskID(c)
	if !ok {
		return
	}
	t, err := h.tasks.GetByID(c.Request.Context(), p.UserID, id)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	var in serializer.TaskInput
	if !bindJSON(c, &in) {
		return
	}
	if err := apply(in, &t); err != nil {
		fail(c, h.log, err)
		return
	}
	if err := h.tasks.Update(c.Request.Context(), &t); err != nil {
		fail(c, h.log, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), p.UserID)
	c.JSON(http.StatusOK, serializer.Task(t))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	p := mdw.PrincipalFrom(c)
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), p.UserID, id); err != nil {
		fail(c, h.log, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), p.UserID)
	c.Status(http.StatusNoContent)
}
