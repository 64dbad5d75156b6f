package config

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Pool *pgxpool.Pool
	DB   *gorm.DB
)

// ConnectDB opens the pgx pool and layers GORM on top of it through pgx's
// database/sql adapter, so both share the same connections.
func ConnectDB(ctx context.Context) (*gorm.DB, error) {
	poolConfig, err := pgxpool.ParseConfig(DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB config: %w", err)
	}
	poolConfig.MaxConns = AppConfig.DBMaxConns
	poolConfig.MinConns = 1
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	Pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := Pool.Ping(pingCtx); err != nil {
		Pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if AppConfig.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	DB, err = gorm.Open(postgres.New(postgres.Config{
		Conn: stdlib.OpenDBFromPool(Pool),
	}), &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		Pool.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	zap.S().Info("Database connected successfully")
	return DB, nil
}

func DSN() string {
	if AppConfig.DatabaseURL != "" {
		return AppConfig.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		AppConfig.DBUser,
		AppConfig.DBPassword,
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBName,
		AppConfig.DBSSLMode,
	)
}

func RunMigrations() error {
	sqlDB, err := sql.Open("pgx", DSN())
	if err != nil {
		return fmt.Errorf("failed to open DB for migrations: %w", err)
	}
	defer sqlDB.Close()

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath, err := filepath.Abs(AppConfig.MigrationsDir)
	if err != nil {
		return fmt.Errorf("failed to resolve migration path: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to initialize migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	zap.S().Info("Database migrations applied (or already up to date)")
	return nil
}

func CloseDB() {
	if Pool != nil {
		Pool.Close()
		zap.S().Info("Database connection closed")
	}
}
