package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 主配置结构 - 简化命名
type Config struct {
	App        App        `yaml:"app"`
	Server     Server     `yaml:"server"`
	Database   DB         `yaml:"database"`
	Cache      Cache      `yaml:"cache"`
	Auth       Auth       `yaml:"auth"`
	RateLimit  Limit      `yaml:"rate_limit"`
	GuestQuota GuestQuota `yaml:"guest_quota"`
	Shortener  Shortener  `yaml:"shortener"`
	Click      Click      `yaml:"click"`
	Geo        Geo        `yaml:"geo"`
	Log        Log        `yaml:"log"`
}

// 应用配置
type App struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"`
	Version string `yaml:"version"`
}

// 服务器配置
type Server struct {
	Port            int      `yaml:"port"`
	ReadTimeout     int      `yaml:"read_timeout"`
	WriteTimeout    int      `yaml:"write_timeout"`
	ShutdownTimeout int      `yaml:"shutdown_timeout"`
	TrustedProxies  []string `yaml:"trusted_proxies"`
}

// 数据库配置，Driver 支持 mysql / postgres / sqlite
type DB struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"` // sqlite 文件路径
}

// 缓存配置（Redis），Host 为空时不启用
type Cache struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	LinkTTL  int    `yaml:"link_ttl"` // 秒
}

// 认证配置
type Auth struct {
	Secret          string `yaml:"secret"`
	Issuer          string `yaml:"issuer"`
	ExpirationHours int    `yaml:"expiration_hours"`
}

// 限流配置（按 IP 的请求频率）
type Limit struct {
	Enabled   bool     `yaml:"enabled"`
	Requests  int64    `yaml:"requests_per_minute"`
	Burst     int64    `yaml:"burst"`
	SkipPaths []string `yaml:"skip_paths"`
}

// 匿名用户创建配额。Window 为 0 表示计数永不重置
type GuestQuota struct {
	Limit  int64         `yaml:"limit"`
	Window time.Duration `yaml:"window"`
	Store  string        `yaml:"store"` // redis / database
}

// 短链接生成配置
type Shortener struct {
	BaseURL     string `yaml:"base_url"`
	SlugLength  int    `yaml:"slug_length"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// 点击记录配置
type Click struct {
	Async         bool          `yaml:"async"`
	RecordTimeout time.Duration `yaml:"record_timeout"`
}

// IP 地理位置查询配置
type Geo struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// 日志配置
type Log struct {
	Level      string `yaml:"level"`
	Filename   string `yaml:"filename"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Default 返回带默认值的配置
func Default() *Config {
	return &Config{
		App:    App{Name: "shorturl-analytics", Mode: "debug", Version: "1.0.0"},
		Server: Server{Port: 8080, ReadTimeout: 10, WriteTimeout: 10, ShutdownTimeout: 10},
		Database: DB{
			Driver: "mysql", Host: "127.0.0.1", Port: 3306, User: "root",
			Name: "shorturl", Charset: "utf8mb4", SSLMode: "disable", Path: "shorturl.db",
		},
		Cache:      Cache{Port: 6379, LinkTTL: 86400},
		Auth:       Auth{Issuer: "shorturl-analytics", ExpirationHours: 72},
		RateLimit:  Limit{Enabled: false, Requests: 120, Burst: 20},
		GuestQuota: GuestQuota{Limit: 3, Store: "database"},
		Shortener:  Shortener{SlugLength: 6, MaxAttempts: 5},
		Click:      Click{Async: true, RecordTimeout: 5 * time.Second},
		Geo:        Geo{Enabled: true, Endpoint: "http://ip-api.com/json", Timeout: 2 * time.Second},
		Log: Log{
			Level: "info", Filename: "./logs/app.log",
			MaxSize: 10, MaxBackups: 5, MaxAge: 30,
		},
	}
}

// 加载配置：默认值 <- yaml 文件 <- 环境变量（可由 .env 提供）
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// .env 不存在时忽略
	_ = godotenv.Load()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv 用 SHORTURL_* 环境变量覆盖敏感或与部署相关的配置
func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("环境变量 %s 不是整数: %w", key, err)
			}
			*dst = n
		}
		return nil
	}

	setString("SHORTURL_APP_MODE", &cfg.App.Mode)
	setString("SHORTURL_DB_DRIVER", &cfg.Database.Driver)
	setString("SHORTURL_DB_HOST", &cfg.Database.Host)
	setString("SHORTURL_DB_USER", &cfg.Database.User)
	setString("SHORTURL_DB_PASSWORD", &cfg.Database.Password)
	setString("SHORTURL_DB_NAME", &cfg.Database.Name)
	setString("SHORTURL_REDIS_HOST", &cfg.Cache.Host)
	setString("SHORTURL_REDIS_PASSWORD", &cfg.Cache.Password)
	setString("SHORTURL_AUTH_SECRET", &cfg.Auth.Secret)
	setString("SHORTURL_BASE_URL", &cfg.Shortener.BaseURL)

	if err := setInt("SHORTURL_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if err := setInt("SHORTURL_DB_PORT", &cfg.Database.Port); err != nil {
		return err
	}
	return setInt("SHORTURL_REDIS_PORT", &cfg.Cache.Port)
}

// Validate 校验必要配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("不支持的数据库驱动: %q", c.Database.Driver)
	}
	switch c.GuestQuota.Store {
	case "redis", "database":
	default:
		return fmt.Errorf("不支持的配额存储: %q", c.GuestQuota.Store)
	}
	if c.GuestQuota.Store == "redis" && c.Cache.Host == "" {
		return fmt.Errorf("guest_quota.store=redis 需要配置 cache.host")
	}
	if c.GuestQuota.Limit <= 0 {
		return fmt.Errorf("guest_quota.limit 必须大于 0")
	}
	if c.GuestQuota.Window < 0 {
		return fmt.Errorf("guest_quota.window 不能为负数")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret 不能为空")
	}
	return nil
}
