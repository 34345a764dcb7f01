package database

import (
	"fmt"

	"shorturl-analytics/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options 数据库连接参数
type Options struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Charset  string
	SSLMode  string
	Path     string
}

// Dialector 根据驱动名构造 gorm 方言
func Dialector(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case "mysql", "":
		charset := opts.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=UTC",
			opts.User, opts.Password, opts.Host, opts.Port, opts.Name, charset)
		return mysql.Open(dsn), nil
	case "postgres":
		sslMode := opts.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			opts.Host, opts.Port, opts.User, opts.Password, opts.Name, sslMode)
		return postgres.Open(dsn), nil
	case "sqlite":
		// 外键级联删除依赖 foreign_keys pragma
		return sqlite.Open(opts.Path + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", opts.Driver)
	}
}

// Open 连接数据库并自动迁移表
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := Dialector(opts)
	if err != nil {
		return nil, err
	}
	return OpenDialector(dialector)
}

// OpenDialector 使用给定方言连接并迁移，测试中直接传入 sqlite 内存库
func OpenDialector(dialector gorm.Dialector) (*gorm.DB, error) {
	connection, err := gorm.Open(dialector, &gorm.Config{
		// 唯一约束冲突统一翻译为 gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	if err := connection.AutoMigrate(model.AllModels()...); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return connection, nil
}
