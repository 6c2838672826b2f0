package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc *Service }

// RegisterRoutes: モバイルアプリのログイン（認証の正本は上流）
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &AuthHandler{svc: svc}
	r.POST("/login", h.MobileLogin)
}

// RegisterOperatorRoutes: 管理API用の運用者アカウント
func RegisterOperatorRoutes(r gin.IRoutes, svc *Service) {
	h := &AuthHandler{svc: svc}
	r.POST("/operators/login", h.OperatorLogin)
	r.POST("/operators/register", h.Register)
	r.DELETE("/operators/:id", h.DeleteOperator)
}

type MobileLoginRequest struct {
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) MobileLogin(c *gin.Context) {
	var req MobileLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sess, err := h.svc.MobileLogin(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, ErrAuthFailed) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "login temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, sess)
}

type OperatorLoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) OperatorLogin(c *gin.Context) {
	var req OperatorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, err := h.svc.OperatorLogin(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "IDまたはパスワードが間違っています"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "Login successful",
	})
}

type RegisterRequest struct {
	ID       string  `json:"id" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Role     *string `json:"role,omitempty"` // 未指定なら viewer
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	role := "viewer"
	if req.Role != nil && *req.Role != "" {
		role = *req.Role
	}

	if err := h.svc.RegisterOperator(c.Request.Context(), req.ID, req.Password, role); err != nil {
		if err == ErrAlreadyExists {
			c.JSON(http.StatusConflict, gin.H{"error": "ID already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "register failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registered"})
}

func (h *AuthHandler) DeleteOperator(c *gin.Context) {
	id := c.Param("id")

	if err := h.svc.DeleteOperator(c.Request.Context(), id); err != nil {
		if err == ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
