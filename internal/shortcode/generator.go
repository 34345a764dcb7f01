package shortcode

import (
	"context"
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"

	"shorturl-analytics/internal/apperror"

	"go.uber.org/zap"
)

const (
	// Charset URL 安全字母表，与 nanoid 默认字母表一致
	Charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	// DefaultLength 随机短码长度
	DefaultLength = 6
	// DefaultMaxAttempts 随机短码冲突时的最大尝试次数
	DefaultMaxAttempts = 5
	// MaxSlugLength 自定义短码的最大长度，与 links.slug 列宽一致
	MaxSlugLength = 64
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// reserved 与根路径下的固定路由同名，不能作为短码
var reserved = map[string]bool{
	"api":     true,
	"auth":    true,
	"health":  true,
	"swagger": true,
}

// ExistsFunc 查询短码是否已被占用
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Generator 负责生成短码并做冲突检查，本身不持有状态
type Generator struct {
	length      int
	maxAttempts int
	logger      *zap.SugaredLogger
}

// NewGenerator 创建短码生成器，非正数参数使用默认值
func NewGenerator(length, maxAttempts int, logger *zap.SugaredLogger) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{
		length:      length,
		maxAttempts: maxAttempts,
		logger:      logger.Named("shortcode_generator"),
	}
}

// MaxAttempts 返回随机短码的最大尝试次数
func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

// Validate 校验用户指定的短码
func Validate(slug string) error {
	if slug == "" || len(slug) > MaxSlugLength || !slugPattern.MatchString(slug) || reserved[strings.ToLower(slug)] {
		return apperror.ErrInvalidSlug
	}
	return nil
}

// Normalize 去掉首尾空白，空串表示调用方没有指定短码
func Normalize(requested string) string {
	return strings.TrimSpace(requested)
}

// Generate 返回用户指定的短码（校验后）或一个新的随机短码
func (g *Generator) Generate(requested string) (slug string, custom bool, err error) {
	if requested = Normalize(requested); requested != "" {
		if err := Validate(requested); err != nil {
			return "", true, err
		}
		return requested, true, nil
	}
	slug, err = g.generateRandomString(g.length)
	return slug, false, err
}

// Issue 生成一个当前未被占用的短码。
// 自定义短码被占用时直接返回 ErrSlugTaken；随机短码冲突时重新生成，
// 超过 maxAttempts 次返回 ErrSlugExhausted。
func (g *Generator) Issue(ctx context.Context, requested string, exists ExistsFunc) (string, error) {
	for i := 0; i < g.maxAttempts; i++ {
		slug, custom, err := g.Generate(requested)
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		if custom {
			return "", apperror.ErrSlugTaken
		}
		g.logger.Debugf("随机短码 %s 已存在，第 %d 次重试", slug, i+1)
	}
	g.logger.Warnf("已尝试 %d 次生成短码，但均存在冲突。", g.maxAttempts)
	return "", apperror.ErrSlugExhausted
}

// generateRandomString 使用加密安全的随机数生成器生成一个给定长度的字符串
func (g *Generator) generateRandomString(length int) (string, error) {
	b := make([]byte, length)
	charsetLen := big.NewInt(int64(len(Charset)))
	for i := range b {
		num, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		b[i] = Charset[num.Int64()]
	}
	return string(b), nil
}
