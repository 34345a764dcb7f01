package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	Link      *LinkHandler
	Analytics *AnalyticsHandler
	Auth      *AuthHandler
}

// RegisterRoutes 注册全部路由。
// authMiddleware 要求登录；optionalAuth 只在携带有效令牌时识别用户
func RegisterRoutes(router *gin.Engine, h Handlers, authMiddleware, optionalAuth gin.HandlerFunc) {
	router.GET("/health", h.Link.HealthCheck)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/:slug", h.Link.Redirect)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/register", h.Auth.Register)
	}

	// 匿名用户也可以创建，受 IP 配额限制
	router.POST("/api/shorten", optionalAuth, h.Link.Shorten)

	api := router.Group("/api")
	api.Use(authMiddleware)
	{
		api.GET("/me", h.Auth.GetCurrentUser)
		api.GET("/urls", h.Link.ListLinks)
		api.DELETE("/urls/:id", h.Link.DeleteLink)
		api.GET("/analytics", h.Analytics.UserAnalytics)
		api.GET("/analytics/countries", h.Analytics.CountryAnalytics)
		api.GET("/analytics/:id", h.Analytics.LinkAnalytics)
	}
}
