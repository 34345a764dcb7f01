package handler

import (
	"errors"
	"net/http"

	"shorturl-analytics/internal/apperror"
	"shorturl-analytics/internal/shortcode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrorResponse 统一错误响应
type ErrorResponse struct {
	Error string `json:"error" example:"Slug already exists"`
}

// statusOf 业务错误码到 HTTP 状态码
func statusOf(code string) int {
	switch code {
	case apperror.CodeValidation, apperror.CodeSlugTaken:
		return http.StatusBadRequest
	case apperror.CodeQuotaExceeded:
		return http.StatusForbidden
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError 写出错误响应，非业务错误只返回通用提示并记录日志
func respondError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	code := apperror.CodeOf(err)
	status := statusOf(code)
	if status == http.StatusInternalServerError {
		logger.Errorf("%s %s 处理失败: %v", c.Request.Method, c.Request.URL.Path, err)
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{Error: apperror.MessageOf(err)})
}

// bindError 把参数绑定错误转换为对应的业务错误
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Field() {
			case "Original":
				return apperror.ErrInvalidURL
			case "Slug":
				return apperror.ErrInvalidSlug
			}
		}
	}
	return apperror.Wrap(err, apperror.CodeValidation, "无效的请求数据: "+err.Error())
}

// RegisterValidators 注册自定义校验规则，启动时调用一次
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin 校验引擎不是 validator/v10")
	}
	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		// 只有空白等同于未指定
		slug := shortcode.Normalize(fl.Field().String())
		return slug == "" || shortcode.Validate(slug) == nil
	})
}
