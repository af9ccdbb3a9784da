package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the catalog database. DB_DRIVER selects mysql (default) or
// sqlite; the sqlite file comes from SQLITE_PATH.
func NewDB() (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver := GetEnv("DB_DRIVER", "mysql"); driver {
	case "sqlite":
		dialector = sqlite.Open(GetEnv("SQLITE_PATH", "storefront.db"))
	case "mysql":
		dialector = mysql.Open(mysqlDSN())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	logMode := logger.Warn
	if GetEnv("GORM_LOG", "") == "off" {
		logMode = logger.Silent
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // Use log.Logger for Printf support
		logger.Config{
			SlowThreshold: time.Second, // Slow SQL threshold
			LogLevel:      logMode,     // Log level
			Colorful:      true,        // Enable color
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func mysqlDSN() string {
	if dsn := GetEnv("MYSQL_DSN", ""); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local",
		GetEnv("MYSQL_USER", ""),
		GetEnv("MYSQL_PASS", ""),
		GetEnv("MYSQL_HOST", "127.0.0.1"),
		GetEnv("MYSQL_PORT", "3306"),
		GetEnv("MYSQL_DB", "storefront"),
	)
}
