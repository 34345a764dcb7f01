package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"shorturl-analytics/internal/middleware"
	"shorturl-analytics/internal/model"
	auth "shorturl-analytics/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthHandler 包含认证相关的处理器
type AuthHandler struct {
	db         *gorm.DB
	jwtManager *auth.TokenManager
	logger     *zap.SugaredLogger
}

// NewAuthHandler 创建一个新的 AuthHandler
func NewAuthHandler(db *gorm.DB, jwtManager *auth.TokenManager, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{db: db, jwtManager: jwtManager, logger: logger.Named("auth_handler")}
}

// LoginRequest 定义了登录请求的结构体
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// RegisterRequest 定义了注册请求的结构体
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Name     string `json:"name" binding:"max=50" example:"Alice"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
}

// AuthResponse 定义了认证成功后的响应
type AuthResponse struct {
	Token string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User  *model.User `json:"user"`
}

// Login godoc
// @Summary 用户登录
// @Description 使用邮箱和密码获取 JWT 令牌
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param   account  body   LoginRequest  true  "登录凭据"
// @Success 200 {object} AuthResponse "成功响应"
// @Failure 400 {object} ErrorResponse "请求无效"
// @Failure 401 {object} ErrorResponse "认证失败"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无效的请求数据: " + err.Error()})
		return
	}

	var user model.User
	err := h.db.WithContext(c.Request.Context()).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if err != nil || !user.CheckPassword(req.Password) {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Errorf("查询用户失败: %v", err)
		}
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "邮箱或密码错误"})
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.logger.Errorf("生成令牌失败: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "生成令牌失败"})
		return
	}

	now := time.Now()
	if err := h.db.WithContext(c.Request.Context()).Model(&user).Update("last_login", now).Error; err != nil {
		h.logger.Warnf("更新最后登录时间失败: %v", err)
	}
	user.LastLogin = &now
	c.JSON(http.StatusOK, AuthResponse{Token: token, User: &user})
}

// Register godoc
// @Summary 用户注册
// @Description 创建一个新用户并返回 JWT 令牌
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param   account  body   RegisterRequest  true  "注册信息"
// @Success 201 {object} AuthResponse "成功响应"
// @Failure 400 {object} ErrorResponse "请求无效或邮箱已注册"
// @Failure 500 {object} ErrorResponse "服务器内部错误"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无效的请求数据: " + err.Error()})
		return
	}

	user := model.User{Email: normalizeEmail(req.Email), Name: strings.TrimSpace(req.Name)}
	if err := user.SetPassword(req.Password); err != nil {
		h.logger.Errorf("密码加密失败: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "密码加密失败"})
		return
	}

	// 邮箱唯一索引兜底并发注册
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "邮箱已注册"})
			return
		}
		h.logger.Errorf("创建用户失败: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "创建用户失败"})
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.logger.Errorf("注册后生成令牌失败: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "生成令牌失败"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: &user})
}

// GetCurrentUser godoc
// @Summary 获取当前用户信息
// @Description 获取当前已登录用户的信息
// @Tags User
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} model.User "成功响应"
// @Failure 401 {object} ErrorResponse "未认证"
// @Failure 404 {object} ErrorResponse "用户不存在"
// @Router /api/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "未认证"})
		return
	}

	var user model.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "用户不存在"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
