package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"personal-apis/internal/core/auth"
	"personal-apis/internal/domain"
	"personal-apis/internal/errs"
	resp "personal-apis/internal/transport/http/response"
	"personal-apis/pkg/utils"
)

// LoginHandler exchanges username/password for a bearer token.
type LoginHandler struct {
	users domain.UserRepository
	jwter *auth.JWTer
	log   *zap.Logger
}

func NewLoginHandler(users domain.UserRepository, jwter *auth.JWTer, log *zap.Logger) *LoginHandler {
	return &LoginHandler{users: users, jwter: jwter, log: log}
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *LoginHandler) Login(c *gin.Context) {
	var in loginInput
	if !bindJSON(c, &in) {
		return
	}
	if in.Username == "" || in.Password == "" {
		resp.Error(c, http.StatusBadRequest, "username and password required")
		return
	}
	u, err := h.users.GetByUsername(c.Request.Context(), in.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			// 不区分「用户不存在」与「密码错误」
			resp.Error(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		fail(c, h.log, err)
		return
	}
	if !utils.CheckPassword(in.Password, u.PasswordHash) {
		resp.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := h.jwter.Issue(u.ID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
