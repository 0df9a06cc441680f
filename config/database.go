package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database holds the two handles on the catalog database: gorm for the
// catalog tree and a pgx pool for cheap raw queries.
type Database struct {
	Gorm *gorm.DB
	Pool *pgxpool.Pool
}

func ConnectDB(ctx context.Context, s Settings, log *zap.Logger) (*Database, error) {
	pool, err := pgxpool.New(ctx, s.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("config: open pgx pool: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("config: database ping: %w", err)
	}
	log.Info("database connected (pgx)")

	gormLogger := logger.Default.LogMode(logger.Info)
	if s.Production() {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(postgres.Open(s.DatabaseURL), &gorm.Config{
		Logger:  gormLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("config: open gorm: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		sqlDB.SetConnMaxIdleTime(2 * time.Minute)
	}
	log.Info("database connected (gorm)")

	return &Database{Gorm: db, Pool: pool}, nil
}

func (d *Database) Close(log *zap.Logger) {
	if d == nil {
		return
	}
	if d.Pool != nil {
		d.Pool.Close()
		log.Info("database connection closed (pgx)")
	}
	if d.Gorm != nil {
		if sqlDB, _ := d.Gorm.DB(); sqlDB != nil {
			sqlDB.Close()
			log.Info("database connection closed (gorm)")
		}
	}
}

// WithTimeout returns a context with a 10s timeout (bumped from 5s for Neon cold starts)
func WithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func WithCustomTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}
