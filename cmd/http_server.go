package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/auth"
	authPostgres "github.com/frahmantamala/hr-management/internal/auth/postgres"
	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	"github.com/frahmantamala/hr-management/internal/core/events"
	"github.com/frahmantamala/hr-management/internal/core/transaction"
	"github.com/frahmantamala/hr-management/internal/department"
	departmentPostgres "github.com/frahmantamala/hr-management/internal/department/postgres"
	"github.com/frahmantamala/hr-management/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-management/internal/employee/postgres"
	"github.com/frahmantamala/hr-management/internal/position"
	positionPostgres "github.com/frahmantamala/hr-management/internal/position/postgres"
	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/frahmantamala/hr-management/internal/transport/rest"
	"github.com/frahmantamala/hr-management/internal/user"
	userPostgres "github.com/frahmantamala/hr-management/internal/user/postgres"
	"github.com/frahmantamala/hr-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

type Dependencies struct {
	Config *internal.Config
	SQL    *sqlx.DB
	DB     *gorm.DB
	Redis  *redis.Client
	Bus    *events.EventBus
	Router *chi.Mux
	Logger *slog.Logger
}

func (d *Dependencies) Close() {
	d.Bus.Wait()
	if err := d.Redis.Close(); err != nil {
		d.Logger.Error("redis close error", "error", err)
	}
	if err := d.SQL.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func startHTTPServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	deps, err := initializeDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "env", deps.Config.Server.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	deps.Logger.Info("server stopped")
	return nil
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	lg := deps.Logger

	base := transport.NewBaseHandler(lg)
	executor := transaction.NewExecutor(deps.DB, lg)
	lookup := validation.NewGormLookup(deps.DB)

	positionService := position.NewService(positionPostgres.NewPositionRepository(deps.DB), executor, lookup, deps.Bus, lg)
	departmentService := department.NewService(departmentPostgres.NewDepartmentRepository(deps.DB), executor, lookup, deps.Bus, lg)
	employeeService := employee.NewService(
		employeePostgres.NewEmployeeRepository(deps.DB),
		executor,
		lookup,
		employee.NewPolicy(employee.Mode(cfg.HR.UnauthorizedFields)),
		deps.Bus,
		lg,
		cfg.Storage.PublicBaseURL,
	)
	userService := user.NewService(
		userPostgres.NewUserRepository(deps.DB),
		userPostgres.NewDirectory(deps.SQL),
		executor,
		lookup,
		deps.Bus,
		lg,
		cfg.Security.BCryptCost,
	)
	authService := auth.NewService(
		authPostgres.NewRepository(deps.DB),
		auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration),
		auth.NewRedisSessionStore(deps.Redis),
		lg,
	)

	health := rest.NewHealthHandler(map[string]rest.Check{
		"postgres": deps.SQL.PingContext,
		"redis": func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		},
	})

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:     health,
		Auth:       auth.NewHandler(base, authService),
		User:       user.NewHandler(base, userService),
		Position:   position.NewHandler(base, positionService),
		Department: department.NewHandler(base, departmentService),
		Employee:   employee.NewHandler(base, employeeService),
	}, rest.RouterOptions{AllowedOrigins: cfg.Server.AllowedOrigins}, lg)
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	sqlDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(sqlDB, config.Server.Env)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	rdb, err := auth.NewRedisClient(ctx, config.Redis)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	bus := events.NewEventBus(lg)
	bus.Subscribe(events.AllEvents, events.AuditHandler(lg))

	return &Dependencies{
		Config: config,
		SQL:    sqlDB,
		DB:     gormDB,
		Redis:  rdb,
		Bus:    bus,
		Router: chi.NewRouter(),
		Logger: lg,
	}, nil
}

// initDB opens the pgx-backed pool shared by sqlx reads and gorm writes.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return dbConn, nil
}

func initGorm(sqlDB *sqlx.DB, env string) (*gorm.DB, error) {
	level := gormLogger.Warn
	if env == "development" {
		level = gormLogger.Info
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(level),
	})
}
