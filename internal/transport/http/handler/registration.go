package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"personal-apis/internal/domain"
	"personal-apis/internal/errs"
	"personal-apis/internal/serializer"
	resp "personal-apis/internal/transport/http/response"
)

// RegistrationHandler 只有 create 一个操作，且仅限匿名调用
type RegistrationHandler struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewRegistrationHandler(users domain.UserRepository, log *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{users: users, log: log}
}

func (h *RegistrationHandler) Create(c *gin.Context) {
	var in serializer.RegistrationInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := in.NewUser()
	if err != nil {
		fail(c, h.log, err)
		return
	}

	// 唯一性预检，拿到字段级错误；插入时的唯一索引兜底并发竞态
	v, err := h.takenFields(c.Request.Context(), u)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if !v.Empty() {
		resp.ValidationError(c, v.Fields)
		return
	}

	if err := h.users.Create(c.Request.Context(), &u); err != nil {
		if errors.Is(err, errs.ErrDuplicate) {
			// 并发注册抢先插入：重查确定撞的是哪条唯一索引
			v, lookupErr := h.takenFields(c.Request.Context(), u)
			if lookupErr != nil || v.Empty() {
				v = errs.NewValidation()
				v.Add("username", msgUsernameTaken)
			}
			resp.ValidationError(c, v.Fields)
			return
		}
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Registration(u))
}

const (
	msgUsernameTaken = "A user with that username already exists."
	msgEmailTaken    = "A user with that email address already exists."
)

// takenFields reports the unique fields already claimed by another user.
func (h *RegistrationHandler) takenFields(ctx context.Context, u domain.User) (*errs.ValidationError, error) {
	v := errs.NewValidation()
	if _, err := h.users.GetByUsername(ctx, u.Username); err == nil {
		v.Add("username", msgUsernameTaken)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if _, err := h.users.GetByEmail(ctx, u.Email); err == nil {
		v.Add("email", msgEmailTaken)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	return v, nil
}
