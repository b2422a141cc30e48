package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	catalogApp "github.com/unical-dimes/professors/internal/application/catalog"
	permissionApp "github.com/unical-dimes/professors/internal/application/permission"
	"github.com/unical-dimes/professors/internal/application/user"
	"github.com/unical-dimes/professors/internal/application/user/helpers"
	"github.com/unical-dimes/professors/internal/infrastructure/auth"
	"github.com/unical-dimes/professors/internal/infrastructure/config"
	"github.com/unical-dimes/professors/internal/infrastructure/permission"
	"github.com/unical-dimes/professors/internal/infrastructure/ratelimit"
	"github.com/unical-dimes/professors/internal/infrastructure/scheduler"
	"github.com/unical-dimes/professors/internal/interfaces/http/middleware"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

// Container holds infrastructure components, repositories, use cases,
// handlers and background jobs. It wires everything together and owns
// their shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client // nil unless redis.enabled

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Auth infrastructure
	tokens    *auth.TokenCodec
	hasher    *auth.CompositePasswordHasher
	enforcer  *permission.Enforcer
	txManager *db.TransactionManager
	sessions  *helpers.SessionStore
	limiter   ratelimit.RateLimiter

	// Application services
	userService       *user.ServiceDDD
	permissionService *permissionApp.Service
	catalogService    *catalogApp.Service

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter // nil when rate limiting is disabled

	schedulerManager *scheduler.SchedulerManager
}

// NewContainer builds every component in dependency order. It fails on the
// first component that cannot be constructed.
func NewContainer(gdb *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     gdb,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, repositories, tokens, policy store
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Auth and RBAC - session store, user service, admin use cases
	c.initAuth()

	// Section 3: Catalog - moderation gate, markdown, teacher/course/review service
	if err := c.initCatalog(); err != nil {
		return nil, err
	}

	// Section 4: Handlers and middlewares
	c.initHandlers()

	// Section 5: Background jobs
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}
