package db

import (
	"fmt"
	"time"

	"VillageRaid/internal/shared/logs"
	"VillageRaid/internal/shared/serverconfig"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSlow = 200 * time.Millisecond

// Open 按配置连接 mysql，SQL 日志走 zap。
func Open(cfg serverconfig.MySQLConfig) (*gorm.DB, error) {
	slow := time.Duration(cfg.SlowMS) * time.Millisecond
	if slow <= 0 {
		slow = defaultSlow
	}
	gcfg := &gorm.Config{
		Logger: logs.NewGormLogger(logger.Warn, slow),
	}

	db, err := gorm.Open(mysql.Open(DSN(cfg)), gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}

	logs.Info("open db success",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBName),
		zap.String("user", cfg.User),
	)
	return db, nil
}

// DSN username:password@tcp(host:port)/dbname?charset=xx&parseTime=True&loc=Local
func DSN(cfg serverconfig.MySQLConfig) string {
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		charset,
	)
}
