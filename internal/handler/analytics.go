package handler

import (
	"net/http"

	"shorturl-analytics/internal/analytics"
	"shorturl-analytics/internal/apperror"
	"shorturl-analytics/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyticsHandler 点击统计
type AnalyticsHandler struct {
	analytics *analytics.Service
	logger    *zap.SugaredLogger
}

func NewAnalyticsHandler(svc *analytics.Service, logger *zap.SugaredLogger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc, logger: logger.Named("analytics_handler")}
}

// LinkAnalytics godoc
// @Summary 单个链接的统计
// @Tags Analytics
// @Security ApiKeyAuth
// @Produce  json
// @Param   id  path  int  true  "链接 ID"
// @Success 200 {object} analytics.LinkReport
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/analytics/{id} [get]
func (h *AnalyticsHandler) LinkAnalytics(c *gin.Context) {
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

	report, err := h.analytics.ForLink(c.Request.Context(), userID, linkID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// UserAnalytics godoc
// @Summary 我的全部链接的统计
// @Tags Analytics
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} analytics.UserReport
// @Failure 401 {object} ErrorResponse
// @Router /api/analytics [get]
func (h *AnalyticsHandler) UserAnalytics(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, h.logger, apperror.ErrUnauthorized)
		return
	}

	report, err := h.analytics.ForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CountryAnalytics godoc
// @Summary 按国家统计点击
// @Description 只包含解析出国家的点击
// @Tags Analytics
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} analytics.CountryReport
// @Failure 401 {object} ErrorResponse
// @Router /api/analytics/countries [get]
func (h *AnalyticsHandler) CountryAnalytics(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, h.logger, apperror.ErrUnauthorized)
		return
	}

	report, err := h.analytics.Countries(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
