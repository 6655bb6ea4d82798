package db

import (
	"fmt"
	"time"

	"github.com/Raza-100/medication-management/config"
	"github.com/Raza-100/medication-management/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxRetries = 10
	retryDelay = 2 * time.Second
)

// Connect opens the pooled gateway used by every service. It retries while the
// database is still starting up.
func Connect(cfg config.DBConfig, log *zap.Logger) (*gorm.DB, error) {
	var (
		conn *gorm.DB
		err  error
	)

	for i := 0; i < maxRetries; i++ {
		conn, err = Open(postgres.Open(cfg.DSN()), log)
		if err == nil {
			sqlDB, dbErr := conn.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)
					sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
					sqlDB.SetConnMaxLifetime(time.Hour)

					log.Info("database_connected",
						zap.String("host", cfg.Host),
						zap.String("port", cfg.Port),
						zap.String("name", cfg.Name),
					)
					return conn, nil
				}
			} else {
				err = dbErr
			}
		}

		log.Warn("database_connect_retry",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", maxRetries, err)
}

// Open builds a gorm handle over the given dialector with the service's defaults.
// Writes that must be atomic open their own transaction, so gorm's implicit
// per-statement transaction is turned off.
func Open(dialector gorm.Dialector, log *zap.Logger) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:                 newGormLogger(log),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// Migrate creates or updates the tables for every model.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func newGormLogger(log *zap.Logger) logger.Interface {
	return logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
