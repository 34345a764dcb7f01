package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shorturl-analytics/internal/apperror"
	"shorturl-analytics/internal/click"
	"shorturl-analytics/internal/middleware"
	"shorturl-analytics/internal/model"
	"shorturl-analytics/internal/redirect"
	"shorturl-analytics/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LinkHandler 短链接的创建、重定向和管理
type LinkHandler struct {
	db        *gorm.DB
	redis     *redis.Client
	shortener *service.Shortener
	resolver  *redirect.Resolver
	logger    *zap.SugaredLogger
}

// NewLinkHandler redisClient 可以为 nil
func NewLinkHandler(db *gorm.DB, redisClient *redis.Client, shortener *service.Shortener, resolver *redirect.Resolver, logger *zap.SugaredLogger) *LinkHandler {
	return &LinkHandler{
		db:        db,
		redis:     redisClient,
		shortener: shortener,
		resolver:  resolver,
		logger:    logger.Named("link_handler"),
	}
}

// HealthCheck godoc
// @Summary 健康检查
// @Tags System
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *LinkHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "healthy", http.StatusOK
	dbState := "ok"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbState = "unavailable"
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	// 缓存不可用时仍能服务，只标记为降级
	redisState := "disabled"
	if h.redis != nil {
		redisState = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			redisState = "unavailable"
			if code == http.StatusOK {
				status = "degraded"
			}
		}
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now(),
		"database":  dbState,
		"redis":     redisState,
	})
}

// ShortenRequest 创建短链接请求，slug 为空时随机生成
type ShortenRequest struct {
	Original string `json:"original" binding:"required" example:"https://github.com/gin-gonic/gin"`
	Slug     string `json:"slug" binding:"omitempty,slug" example:"gin"`
}

// ShortenResponse 创建短链接响应
type ShortenResponse struct {
	ShortURL string `json:"shortUrl" example:"http://localhost:8080/aZ3_k9"`
}

// LinkResponse 链接列表项
type LinkResponse struct {
	ID        uint      `json:"id"`
	Slug      string    `json:"slug"`
	Original  string    `json:"original"`
	ShortURL  string    `json:"shortUrl"`
	Clicks    int64     `json:"clicks"`
	CreatedAt time.Time `json:"createdAt"`
}

// Shorten godoc
// @Summary 创建短链接
// @Description 登录用户不受限制；匿名用户每个 IP 最多创建 guest_quota.limit 个
// @Tags ShortLink
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   request  body   ShortenRequest  true  "原始地址和可选的自定义短码"
// @Success 201 {object} ShortenResponse
// @Failure 400 {object} ErrorResponse "地址或短码无效，或短码已存在"
// @Failure 403 {object} ErrorResponse "IP_LIMIT_EXCEEDED"
// @Failure 500 {object} ErrorResponse
// @Router /api/shorten [post]
func (h *LinkHandler) Shorten(c *gin.Context) {
	var req ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, bindError(err))
		return
	}

	in := service.ShortenRequest{
		Original: req.Original,
		Slug:     req.Slug,
		ClientIP: c.ClientIP(),
	}
	if userID, ok := middleware.UserID(c); ok {
		in.OwnerID = &userID
	}

	link, err := h.shortener.Shorten(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, ShortenResponse{ShortURL: h.shortener.ShortURL(link, requestOrigin(c))})
}

// Redirect godoc
// @Summary 短链接跳转
// @Description 302 跳转到原始地址并记录一次点击
// @Tags ShortLink
// @Param   slug  path  string  true  "短码"
// @Success 302
// @Failure 404 {object} ErrorResponse "URL not found"
// @Router /{slug} [get]
func (h *LinkHandler) Redirect(c *gin.Context) {
	visit := click.Visit{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}

	target, err := h.resolver.Resolve(c.Request.Context(), c.Param("slug"), visit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// ListLinks godoc
// @Summary 我的短链接
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {array} LinkResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/urls [get]
func (h *LinkHandler) ListLinks(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, h.logger, apperror.ErrUnauthorized)
		return
	}

	links, err := h.shortener.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	origin := requestOrigin(c)
	resp := make([]LinkResponse, 0, len(links))
	for i := range links {
		resp = append(resp, h.toResponse(&links[i], origin))
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteLink godoc
// @Summary 删除短链接
// @Description 同时删除该链接的全部点击记录
// @Tags ShortLink
// @Security ApiKeyAuth
// @Param   id  path  int  true  "链接 ID"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/urls/{id} [delete]
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, h.logger, apperror.ErrUnauthorized)
		return
	}
	linkID, err := parseID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.shortener.Delete(c.Request.Context(), userID, linkID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LinkHandler) toResponse(link *model.Link, origin string) LinkResponse {
	return LinkResponse{
		ID:        link.ID,
		Slug:      link.Slug,
		Original:  link.Original,
		ShortURL:  h.shortener.ShortURL(link, origin),
		Clicks:    link.ClickCount,
		CreatedAt: link.CreatedAt,
	}
}

// parseID 非法 ID 视为链接不存在
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.ErrNotFound
	}
	return uint(id), nil
}

func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
